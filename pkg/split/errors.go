package split

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// TestRatioError is returned when the test ratio is outside of (0, 1).
func TestRatioError(ratio float64) error {
	msg := "Test ratio must be within (0, 1), got %v"
	vars := []any{ratio}
	return newSplitError(errcode.ConfigTestRatioError, msg, vars,
		fmt.Errorf("bad test ratio %v", ratio))
}

// EmptySplitError is returned when train or test set would be empty.
func EmptySplitError(rows, test int) error {
	msg := `Cannot split %d rows with %d test rows

<em>How to fix:</em>
  1. Relax the quality filter to keep more rows
  2. Change model.test_ratio`
	vars := []any{rows, test}
	return newSplitError(errcode.DataEmptySplitError, msg, vars,
		fmt.Errorf("empty split: %d rows, %d test", rows, test))
}

func newSplitError(
	code gn.ErrorCode,
	msg string,
	vars []any,
	err error,
) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
