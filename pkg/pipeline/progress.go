package pipeline

// Progress receives ticks of long-running stages. Increment can be called
// from several goroutines.
type Progress interface {
	// Start begins a stage of total steps.
	Start(stage string, total int)

	// Increment marks one step done.
	Increment()

	// Finish ends the current stage.
	Finish()
}

type noProgress struct{}

func (noProgress) Start(string, int) {}
func (noProgress) Increment()        {}
func (noProgress) Finish()           {}
