package ioreport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// ChartError is returned when a chart cannot be drawn or saved.
func ChartError(path string, err error) error {
	msg := "Cannot create chart <em>%s</em>"
	vars := []any{path}
	return newReportError(errcode.ReportChartError, msg, vars,
		fmt.Errorf("cannot create chart %s: %w", path, err))
}

func newReportError(
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
