package ioload

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// HeaderError is returned when a required column is missing.
func HeaderError(path, column string) error {
	msg := "File <em>%s</em> has no column <em>%s</em>"
	vars := []any{path, column}
	return newLoadError(errcode.InputHeaderError, msg, vars,
		fmt.Errorf("no column %q in %s", column, path))
}

// RowError is returned when a CSV row cannot be parsed.
func RowError(path string, err error) error {
	msg := "Cannot parse CSV file <em>%s</em>"
	vars := []any{path}
	return newLoadError(errcode.InputRowError, msg, vars,
		fmt.Errorf("cannot parse %s: %w", path, err))
}

// YearError is returned when a year is not an integer.
func YearError(path string, line int, val string) error {
	msg := "Bad year '%s' in <em>%s</em>, line %d"
	vars := []any{val, path, line}
	return newLoadError(errcode.InputYearError, msg, vars,
		fmt.Errorf("bad year %q at %s:%d", val, path, line))
}

// ValueError is returned when a cell is neither a number nor a missing
// value token.
func ValueError(path string, line int, column, val string) error {
	msg := "Bad value '%s' of <em>%s</em> in <em>%s</em>, line %d"
	vars := []any{val, column, path, line}
	return newLoadError(errcode.InputValueError, msg, vars,
		fmt.Errorf("bad value %q of %s at %s:%d", val, column, path, line))
}

func newLoadError(
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
