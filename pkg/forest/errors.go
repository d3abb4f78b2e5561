package forest

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// ParamsError is returned for an out of range forest parameter.
func ParamsError(name string, val any) error {
	msg := "Random forest parameter <em>%s</em> has invalid value %v"
	vars := []any{name, val}
	return newForestError(errcode.ConfigForestError, msg, vars,
		fmt.Errorf("invalid %s: %v", name, val))
}

// ShapeError is returned when data does not fit the model.
func ShapeError(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	msg := "Data does not fit the model: %s"
	vars := []any{detail}
	return newForestError(errcode.InputShapeError, msg, vars,
		fmt.Errorf("wrong shape: %s", detail))
}

func newForestError(
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
