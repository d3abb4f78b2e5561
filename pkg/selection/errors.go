package selection

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// FeaturesError is returned when the number of features is not positive.
func FeaturesError(k int) error {
	msg := "Number of selected features has to be positive, got %d"
	vars := []any{k}
	return newSelectionError(errcode.ConfigFeaturesError, msg, vars,
		fmt.Errorf("bad number of features: %d", k))
}

// ShapeError is returned when names or target do not fit the matrix.
func ShapeError(format string, args ...any) error {
	detail := fmt.Sprintf(format, args...)
	msg := "Feature matrix has a wrong shape: %s"
	vars := []any{detail}
	return newSelectionError(errcode.InputShapeError, msg, vars,
		fmt.Errorf("wrong shape: %s", detail))
}

func newSelectionError(
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
