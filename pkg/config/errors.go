package config

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
)

// ThresholdError is returned when a fraction is outside of [0, 1].
func ThresholdError(name string, val float64) error {
	msg := "<em>%s</em> must be within [0, 1], got %v"
	vars := []any{name, val}
	return newConfigError(errcode.ConfigThresholdError, msg, vars,
		fmt.Errorf("%s out of range: %v", name, val))
}

// DropCountError is returned when a drop count is negative.
func DropCountError(name string, val int) error {
	msg := "<em>%s</em> cannot be negative, got %d"
	vars := []any{name, val}
	return newConfigError(errcode.ConfigDropCountError, msg, vars,
		fmt.Errorf("%s is negative: %d", name, val))
}

// NeighborsError is returned when the number of imputation neighbors is
// not positive.
func NeighborsError(val int) error {
	msg := "<em>impute.neighbors</em> has to be a positive number, got %d"
	vars := []any{val}
	return newConfigError(errcode.ConfigNeighborsError, msg, vars,
		fmt.Errorf("neighbors must be positive: %d", val))
}

// FeaturesError is returned when the number of selected features is not
// positive.
func FeaturesError(val int) error {
	msg := "<em>select.features_number</em> has to be a positive number, got %d"
	vars := []any{val}
	return newConfigError(errcode.ConfigFeaturesError, msg, vars,
		fmt.Errorf("features number must be positive: %d", val))
}

// FeaturesExceedError is returned when more features are requested than
// the dataset provides.
func FeaturesExceedError(requested, available int) error {
	msg := `<em>select.features_number</em> is %d, but only %d indicators are available

<em>How to fix:</em>
  1. Lower select.features_number
  2. Use a dataset with more indicators`
	vars := []any{requested, available}
	return newConfigError(errcode.ConfigFeaturesError, msg, vars,
		fmt.Errorf("features number %d exceeds %d available indicators",
			requested, available))
}

// PatternError is returned when the exclude pattern is not a valid regular
// expression.
func PatternError(pattern string, err error) error {
	msg := "<em>select.exclude_pattern</em> '%s' is not a valid regular expression"
	vars := []any{pattern}
	return newConfigError(errcode.ConfigPatternError, msg, vars,
		fmt.Errorf("bad exclude pattern %q: %w", pattern, err))
}

// TestRatioError is returned when the test ratio is outside of (0, 1).
func TestRatioError(val float64) error {
	msg := "<em>model.test_ratio</em> must be within (0, 1), got %v"
	vars := []any{val}
	return newConfigError(errcode.ConfigTestRatioError, msg, vars,
		fmt.Errorf("test ratio out of range: %v", val))
}

// ForestError is returned when a random forest parameter is out of range.
func ForestError(name string, val any) error {
	msg := "<em>%s</em> has invalid value %v"
	vars := []any{name, val}
	return newConfigError(errcode.ConfigForestError, msg, vars,
		fmt.Errorf("invalid forest parameter %s: %v", name, val))
}

func newConfigError(
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
