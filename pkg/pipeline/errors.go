package pipeline

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// CancelledError is returned when a run is interrupted.
func CancelledError(err error) error {
	msg := "Run was interrupted"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PipelineCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
