package forest

import (
	"math"
	"runtime"
)

// Params of a random forest.
type Params struct {
	// Trees is the number of trees.
	Trees int

	// MaxDepth limits depth of trees, 0 means unlimited.
	MaxDepth int

	// MinSamplesSplit is the minimal number of samples of a node that can
	// be split.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimal number of samples of a leaf.
	MinSamplesLeaf int

	// MaxFeatures is the fraction of features tried at every split.
	MaxFeatures float64

	// Seed drives bootstrap sampling and feature subsampling. Every tree
	// gets its own stream derived from Seed and the tree index.
	Seed int
}

// DefaultParams returns the usual random forest regressor settings.
func DefaultParams() Params {
	return Params{
		Trees:           100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     1.0,
		Seed:            0,
	}
}

func (p Params) validate() error {
	switch {
	case p.Trees <= 0:
		return ParamsError("trees", p.Trees)
	case p.MaxDepth < 0:
		return ParamsError("max depth", p.MaxDepth)
	case p.MinSamplesSplit < 2:
		return ParamsError("min samples split", p.MinSamplesSplit)
	case p.MinSamplesLeaf < 1:
		return ParamsError("min samples leaf", p.MinSamplesLeaf)
	case math.IsNaN(p.MaxFeatures) || p.MaxFeatures <= 0 || p.MaxFeatures > 1:
		return ParamsError("max features", p.MaxFeatures)
	}
	return nil
}

// featuresPerSplit returns how many features are tried at every split.
func (p Params) featuresPerSplit(n int) int {
	return max(1, int(p.MaxFeatures*float64(n)))
}

// Option configures fitting.
type Option func(*fitter)

type fitter struct {
	jobs int
	tick func()
}

func newFitter(opts []Option) *fitter {
	res := &fitter{jobs: runtime.NumCPU(), tick: func() {}}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// OptJobs sets the number of trees fitted concurrently.
func OptJobs(n int) Option {
	return func(f *fitter) {
		if n > 0 {
			f.jobs = n
		}
	}
}

// OptTick sets a function called after every fitted tree. It is called
// from several goroutines.
func OptTick(fn func()) Option {
	return func(f *fitter) {
		f.tick = fn
	}
}
