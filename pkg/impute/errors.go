package impute

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// NeighborsError is returned when the number of neighbors is not
// positive.
func NeighborsError(k int) error {
	msg := "Number of neighbors has to be positive, got %d"
	vars := []any{k}
	return newImputeError(errcode.ConfigNeighborsError, msg, vars,
		fmt.Errorf("bad number of neighbors: %d", k))
}

// EmptyColumnError is returned when a column has no observed values.
func EmptyColumnError(name string) error {
	msg := "Indicator <em>%s</em> has no values to impute from"
	vars := []any{name}
	return newImputeError(errcode.DataEmptyColumnError, msg, vars,
		fmt.Errorf("column %s has no observed values", name))
}

// NoDonorsWarning describes cells that were filled with column means
// because no row could donate a value. It does not stop the pipeline.
func NoDonorsWarning(cells int, columns []string) error {
	msg := "%d cells had no donors, used means of %s"
	vars := []any{cells, strings.Join(columns, ", ")}
	return newImputeError(errcode.DataNoDonorsWarning, msg, vars,
		fmt.Errorf("no donors for %d cells", cells))
}

func newImputeError(
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
