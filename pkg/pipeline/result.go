package pipeline

import (
	"time"

	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/forest"
	"github.com/gnames/wdimodel/pkg/impute"
	"github.com/gnames/wdimodel/pkg/metrics"
	"github.com/gnames/wdimodel/pkg/quality"
	"github.com/gnames/wdimodel/pkg/selection"
)

// Result contains everything a run computed. Reporting renders it, it
// is never modified after Run returns.
type Result struct {
	// RunID is a UUID v5 of input paths, table content and parameters.
	RunID string

	// Target is the code of the predicted indicator.
	Target string

	// TargetName is the name of the predicted indicator.
	TargetName string

	// Dataset is the ingested data.
	Dataset *dataset.Dataset

	// Filter is the result of the quality filter, it includes missingness
	// statistics of the ingested table.
	Filter *quality.Result

	// Excluded are trivial indicators removed from features.
	Excluded []string

	// Features are indicators offered to the feature selector.
	Features []string

	// Impute summarizes the imputation.
	Impute impute.Summary

	// Selection is the result of feature selection on the train set.
	Selection *selection.Result

	// Model is the fitted forest over the selected features.
	Model *forest.Model

	// TrainRows and TestRows are the sizes of the split.
	TrainRows int
	TestRows  int

	// Predictions on the test set, in split order.
	Predictions []Prediction

	// Metrics of the test predictions.
	Metrics metrics.Summary

	// ErrorByYear is the mean absolute error per year, sorted by year.
	ErrorByYear []metrics.GroupError

	// ErrorByCountry is the mean absolute error per country name, sorted
	// by name.
	ErrorByCountry []metrics.GroupError

	// ErrorByAggregate is ErrorByCountry restricted to aggregates
	// (regions, income groups, World).
	ErrorByAggregate []metrics.GroupError

	// Duration of the run.
	Duration time.Duration
}

// Prediction is a predicted target value of a test observation.
type Prediction struct {
	Key       dataset.Key
	Region    string
	Aggregate bool
	Actual    float64
	Predicted float64
}

// Residual is the difference of predicted and actual values.
func (p Prediction) Residual() float64 {
	return p.Predicted - p.Actual
}

// AbsError is the absolute error of the prediction.
func (p Prediction) AbsError() float64 {
	return max(p.Predicted-p.Actual, p.Actual-p.Predicted)
}

// Actuals returns actual values of all predictions.
func (r *Result) Actuals() []float64 {
	res := make([]float64, len(r.Predictions))
	for i, v := range r.Predictions {
		res[i] = v.Actual
	}
	return res
}

// Predicted returns predicted values of all predictions.
func (r *Result) Predicted() []float64 {
	res := make([]float64, len(r.Predictions))
	for i, v := range r.Predictions {
		res[i] = v.Predicted
	}
	return res
}

// SelectedNames returns names of selected features in their order.
func (r *Result) SelectedNames() []string {
	res := make([]string, len(r.Selection.Selected))
	for i, v := range r.Selection.Selected {
		res[i] = r.Dataset.Indicators.Name(v)
	}
	return res
}
