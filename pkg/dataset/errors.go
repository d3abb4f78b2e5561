package dataset

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// ShapeError is returned when rows, keys and columns do not agree.
func ShapeError(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	msg := "Observation table has a wrong shape: %s"
	vars := []any{detail}
	return newDatasetError(errcode.InputShapeError, msg, vars,
		fmt.Errorf("wrong shape: %s", detail))
}

// DuplicateKeyError is returned when a (country, year) pair repeats.
func DuplicateKeyError(code string, year int) error {
	msg := "Duplicate observation for country <em>%s</em>, year <em>%d</em>"
	vars := []any{code, year}
	return newDatasetError(errcode.InputDuplicateKeyError, msg, vars,
		fmt.Errorf("duplicate key (%s, %d)", code, year))
}

// DuplicateColumnError is returned when a column name repeats.
func DuplicateColumnError(name string) error {
	msg := "Duplicate column <em>%s</em>"
	vars := []any{name}
	return newDatasetError(errcode.InputHeaderError, msg, vars,
		fmt.Errorf("duplicate column %s", name))
}

// UnknownColumnError is returned when a column is not in the table.
func UnknownColumnError(name string) error {
	msg := "Column <em>%s</em> is not in the observation table"
	vars := []any{name}
	return newDatasetError(errcode.InputHeaderError, msg, vars,
		fmt.Errorf("unknown column %s", name))
}

// DuplicateIndicatorError is returned when the indicator catalog repeats
// a code.
func DuplicateIndicatorError(code string) error {
	msg := "Indicator catalog has duplicate code <em>%s</em>"
	vars := []any{code}
	return newDatasetError(errcode.InputDuplicateKeyError, msg, vars,
		fmt.Errorf("duplicate indicator %s", code))
}

// UnknownIndicatorError is returned when an observation column has no
// catalog entry.
func UnknownIndicatorError(code string) error {
	msg := "Column <em>%s</em> has no entry in the indicator catalog"
	vars := []any{code}
	return newDatasetError(errcode.InputUnknownIndicatorError, msg, vars,
		fmt.Errorf("indicator %s is not in catalog", code))
}

// TargetNotFoundError is returned when no indicator has the target name.
func TargetNotFoundError(name string) error {
	msg := `Target indicator <em>%s</em> is not found

<em>How to fix:</em>
  1. Check input.target in config.yaml
  2. Make sure the observation table has a column for it`
	vars := []any{name}
	return newDatasetError(errcode.InputTargetNotFoundError, msg, vars,
		fmt.Errorf("target %q not found", name))
}

// TargetAmbiguousError is returned when several indicators have the same
// target name.
func TargetAmbiguousError(name string, codes []string) error {
	list := strings.Join(codes, ", ")
	msg := "Target indicator <em>%s</em> matches several codes: %s"
	vars := []any{name, list}
	return newDatasetError(errcode.InputTargetAmbiguousError, msg, vars,
		fmt.Errorf("target %q is ambiguous: %s", name, list))
}

// EmptyTableError is returned when a matrix would have no rows or no
// columns.
func EmptyTableError(rows, cols int) error {
	msg := "No data left: %d rows, %d columns"
	vars := []any{rows, cols}
	return newDatasetError(errcode.DataEmptyTableError, msg, vars,
		fmt.Errorf("empty table %dx%d", rows, cols))
}

func newDatasetError(
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
