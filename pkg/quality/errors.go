package quality

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// EmptyTableError is returned when filtering leaves no rows or no
// indicators besides the target.
func EmptyTableError(rows, cols int) error {
	msg := `Quality filter left no data: %d rows, %d indicators

<em>How to fix:</em>
  1. Lower filter.not_nan_threshold
  2. Drop fewer years or countries`
	vars := []any{rows, cols}
	return newQualityError(errcode.DataEmptyTableError, msg, vars,
		fmt.Errorf("empty table after filter: %d rows, %d columns", rows, cols))
}

// TargetColumnError is returned when the table has no target column.
func TargetColumnError(target string) error {
	msg := "Observation table has no target column <em>%s</em>"
	vars := []any{target}
	return newQualityError(errcode.InputTargetNotFoundError, msg, vars,
		fmt.Errorf("no target column %s", target))
}

// ThresholdError is returned when the not-NaN threshold is out of [0, 1].
func ThresholdError(val float64) error {
	msg := "Not-NaN threshold must be within [0, 1], got %v"
	vars := []any{val}
	return newQualityError(errcode.ConfigThresholdError, msg, vars,
		fmt.Errorf("threshold out of range: %v", val))
}

// DropCountError is returned when a drop count is negative.
func DropCountError(what string, val int) error {
	msg := "Number of %s to drop cannot be negative, got %d"
	vars := []any{what, val}
	return newQualityError(errcode.ConfigDropCountError, msg, vars,
		fmt.Errorf("negative %s drop count: %d", what, val))
}

func newQualityError(
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
