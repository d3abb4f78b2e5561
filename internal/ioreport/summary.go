package ioreport

import (
	"math"
	"os"

	"github.com/gnames/gnfmt"
	"github.com/gnames/wdimodel/internal/iofs"
	"github.com/gnames/wdimodel/pkg/pipeline"
)

// summary is the JSON view of a run. Non-finite numbers become null.
type summary struct {
	RunID       string         `json:"runId"`
	Target      string         `json:"target"`
	TargetName  string         `json:"targetName"`
	Rows        int            `json:"rows"`
	TrainRows   int            `json:"trainRows"`
	TestRows    int            `json:"testRows"`
	Dropped     droppedSummary `json:"dropped"`
	Indicators  int            `json:"indicators"`
	Excluded    []string       `json:"excluded"`
	Selected    []string       `json:"selected"`
	Imputed     int            `json:"imputedCells"`
	Fallback    int            `json:"fallbackCells"`
	Trees       int            `json:"trees"`
	Metrics     metricsSummary `json:"metrics"`
	DurationSec float64        `json:"durationSec"`
}

type droppedSummary struct {
	TargetMissingRows int      `json:"targetMissingRows"`
	Years             []int    `json:"years"`
	Countries         []string `json:"countries"`
	Indicators        []string `json:"indicators"`
}

type metricsSummary struct {
	N         int      `json:"n"`
	MAE       *float64 `json:"mae"`
	MSE       *float64 `json:"mse"`
	RMSE      *float64 `json:"rmse"`
	R2        *float64 `json:"r2"`
	Intercept *float64 `json:"intercept"`
	Slope     *float64 `json:"slope"`
	R         *float64 `json:"r"`
}

func newSummary(res *pipeline.Result) summary {
	m := res.Metrics
	return summary{
		RunID:      res.RunID,
		Target:     res.Target,
		TargetName: res.TargetName,
		Rows:       res.Filter.Table.Rows(),
		TrainRows:  res.TrainRows,
		TestRows:   res.TestRows,
		Dropped: droppedSummary{
			TargetMissingRows: res.Filter.TargetMissingRows,
			Years:             nonNil(res.Filter.DroppedYears),
			Countries:         nonNil(res.Filter.DroppedCountries),
			Indicators:        nonNil(res.Filter.DroppedIndicators),
		},
		Indicators: len(res.Filter.Indicators),
		Excluded:   nonNil(res.Excluded),
		Selected:   nonNil(res.Selection.Selected),
		Imputed:    res.Impute.Imputed,
		Fallback:   res.Impute.Fallback,
		Trees:      res.Model.Trees(),
		Metrics: metricsSummary{
			N:         m.N,
			MAE:       finite(m.MAE),
			MSE:       finite(m.MSE),
			RMSE:      finite(m.RMSE),
			R2:        finite(m.R2),
			Intercept: finite(m.Line.Intercept),
			Slope:     finite(m.Line.Slope),
			R:         finite(m.Line.R),
		},
		DurationSec: res.Duration.Seconds(),
	}
}

func writeSummary(path string, res *pipeline.Result) error {
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(newSummary(res))
	if err != nil {
		return iofs.WriteFileError(path, err)
	}
	if err = os.WriteFile(path, bs, 0644); err != nil {
		return iofs.WriteFileError(path, err)
	}
	return nil
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// nonNil keeps empty lists as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
