// Package pipeline runs the stages of wdimodel over an in-memory dataset:
// quality filter, imputation, exclusion of trivial indicators, train/test
// split, feature selection, random forest fitting and evaluation.
//
// Every stage gets a new table from the previous one, nothing upstream is
// modified.
package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/gnuuid"
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/forest"
	"github.com/gnames/wdimodel/pkg/impute"
	"github.com/gnames/wdimodel/pkg/metrics"
	"github.com/gnames/wdimodel/pkg/quality"
	"github.com/gnames/wdimodel/pkg/selection"
	"github.com/gnames/wdimodel/pkg/split"
	"gonum.org/v1/gonum/mat"
)

// Pipeline runs the modeling stages with one configuration.
type Pipeline struct {
	cfg      *config.Config
	progress Progress
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// OptProgress sets a receiver of stage progress.
func OptProgress(p Progress) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.progress = p
		}
	}
}

// New creates a Pipeline.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	res := &Pipeline{cfg: cfg, progress: noProgress{}}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Stats returns missingness statistics of the ingested table.
func (p *Pipeline) Stats(ds *dataset.Dataset) *quality.Stats {
	return quality.Compute(ds.Table)
}

// Run executes all stages. Configuration and dataset invariants are
// checked before any stage runs.
func (p *Pipeline) Run(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	timeStart := time.Now()
	cfg := p.cfg

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target, err := ds.TargetCode(cfg.Input.Target)
	if err != nil {
		return nil, err
	}
	if err = ds.Validate(target); err != nil {
		return nil, err
	}
	trivial := p.trivial(ds)

	var candidates []string
	for _, v := range ds.Table.Columns() {
		if _, ok := trivial[v]; v != target && !ok {
			candidates = append(candidates, v)
		}
	}
	if cfg.Select.FeaturesNumber > len(candidates) {
		return nil, config.FeaturesExceedError(
			cfg.Select.FeaturesNumber, len(candidates),
		)
	}

	res := &Result{
		RunID:      p.runID(ds),
		Target:     target,
		TargetName: cfg.Input.Target,
		Dataset:    ds,
	}

	res.Filter, err = quality.Filter(ds.Table, target, quality.Thresholds{
		YearsToDrop:     cfg.Filter.YearsToDrop,
		CountriesToDrop: cfg.Filter.CountriesToDrop,
		NotNaNThreshold: cfg.Filter.NotNaNThreshold,
	})
	if err != nil {
		return nil, err
	}
	tbl := res.Filter.Table
	indicators := res.Filter.Indicators

	xAll, err := tbl.Matrix(indicators)
	if err != nil {
		return nil, err
	}
	y := tbl.Column(target)

	xImputed, err := p.impute(ctx, xAll, indicators, &res.Impute)
	if err != nil {
		return nil, err
	}

	var featIdx []int
	for j, v := range indicators {
		if _, ok := trivial[v]; ok {
			res.Excluded = append(res.Excluded, v)
			continue
		}
		res.Features = append(res.Features, v)
		featIdx = append(featIdx, j)
	}
	if len(res.Features) == 0 {
		return nil, dataset.EmptyTableError(tbl.Rows(), 0)
	}
	x := selection.Columns(xImputed, featIdx)

	sp, err := split.TrainTest(tbl.Rows(), cfg.Model.TestRatio, cfg.Model.SplitSeed)
	if err != nil {
		return nil, err
	}
	res.TrainRows, res.TestRows = len(sp.Train), len(sp.Test)
	xTrain, yTrain := subset(x, y, sp.Train)
	xTest, yTest := subset(x, y, sp.Test)

	k := cfg.Select.FeaturesNumber
	if k > len(res.Features) {
		slog.Warn("Fewer features left after filtering than requested",
			"requested", k, "available", len(res.Features))
	}
	res.Selection, err = selection.Select(xTrain, res.Features, yTrain, k)
	if err != nil {
		return nil, err
	}
	xTrain = selection.Columns(xTrain, res.Selection.Indices)
	xTest = selection.Columns(xTest, res.Selection.Indices)

	res.Model, err = p.fit(ctx, xTrain, yTrain)
	if err != nil {
		return nil, err
	}

	pred, err := res.Model.Predict(xTest)
	if err != nil {
		return nil, err
	}
	res.Metrics = metrics.Summarize(yTest, pred)
	res.Predictions = predictions(tbl, ds.Countries, sp.Test, yTest, pred)
	p.groupErrors(res)

	res.Duration = time.Since(timeStart)
	slog.Info("Pipeline finished",
		"run_id", res.RunID,
		"rows", tbl.Rows(),
		"features", len(res.Selection.Selected),
		"r2", res.Metrics.R2,
		"mae", res.Metrics.MAE,
	)
	return res, nil
}

func (p *Pipeline) impute(
	ctx context.Context,
	x *mat.Dense,
	names []string,
	sum *impute.Summary,
) (*mat.Dense, error) {
	rows, _ := x.Dims()
	p.progress.Start("Imputing", rows)
	defer p.progress.Finish()

	im := impute.New(
		p.cfg.Impute.Neighbors,
		impute.OptJobs(p.cfg.JobsNumber),
		impute.OptNames(names),
		impute.OptTick(p.progress.Increment),
	)
	res, s, err := im.Impute(ctx, x)
	if err != nil {
		return nil, wrapCancel(err)
	}
	*sum = s
	return res, nil
}

func (p *Pipeline) fit(
	ctx context.Context,
	x *mat.Dense,
	y []float64,
) (*forest.Model, error) {
	m := p.cfg.Model
	p.progress.Start("Fitting trees", m.Trees)
	defer p.progress.Finish()

	res, err := forest.Fit(ctx, x, y, forest.Params{
		Trees:           m.Trees,
		MaxDepth:        m.MaxDepth,
		MinSamplesSplit: m.MinSamplesSplit,
		MinSamplesLeaf:  m.MinSamplesLeaf,
		MaxFeatures:     m.MaxFeatures,
		Seed:            m.Seed,
	},
		forest.OptJobs(p.cfg.JobsNumber),
		forest.OptTick(p.progress.Increment),
	)
	if err != nil {
		return nil, wrapCancel(err)
	}
	return res, nil
}

// trivial returns table columns with names matching the exclude pattern.
func (p *Pipeline) trivial(ds *dataset.Dataset) map[string]struct{} {
	res := make(map[string]struct{})
	if p.cfg.Select.ExcludePattern == "" {
		return res
	}
	// the pattern is checked by Validate
	re := regexp.MustCompile(p.cfg.Select.ExcludePattern)
	for _, v := range ds.Indicators.Matching(re, ds.Table.Columns()) {
		res[v] = struct{}{}
	}
	return res
}

// runID is stable for the same inputs and parameters.
func (p *Pipeline) runID(ds *dataset.Dataset) string {
	c := p.cfg
	id := strings.Join([]string{
		c.Input.DataPath,
		c.Input.Target,
		fmt.Sprintf("%dx%d", ds.Table.Rows(), ds.Table.Cols()),
		strconv.FormatUint(ds.Table.Fingerprint(), 16),
		fmt.Sprintf("%+v", c.Filter),
		fmt.Sprintf("%+v", c.Impute),
		fmt.Sprintf("%+v", c.Select),
		fmt.Sprintf("%+v", c.Model),
	}, "|")
	return gnuuid.New(id).String()
}

func (p *Pipeline) groupErrors(res *Result) {
	n := len(res.Predictions)
	years := make([]string, n)
	names := make([]string, n)
	actual, pred := res.Actuals(), res.Predicted()
	var aggNames []string
	var aggActual, aggPred []float64
	for i, v := range res.Predictions {
		years[i] = strconv.Itoa(v.Key.Year)
		names[i] = v.Key.CountryName
		if v.Aggregate {
			aggNames = append(aggNames, v.Key.CountryName)
			aggActual = append(aggActual, v.Actual)
			aggPred = append(aggPred, v.Predicted)
		}
	}

	res.ErrorByYear = metrics.MAEBy(years, actual, pred)
	slices.SortFunc(res.ErrorByYear, func(a, b metrics.GroupError) int {
		ya, _ := strconv.Atoi(a.Key)
		yb, _ := strconv.Atoi(b.Key)
		return cmp.Compare(ya, yb)
	})

	byName := func(a, b metrics.GroupError) int {
		return cmp.Compare(a.Key, b.Key)
	}
	res.ErrorByCountry = metrics.MAEBy(names, actual, pred)
	slices.SortFunc(res.ErrorByCountry, byName)
	res.ErrorByAggregate = metrics.MAEBy(aggNames, aggActual, aggPred)
	slices.SortFunc(res.ErrorByAggregate, byName)
}

func predictions(
	tbl *dataset.Table,
	countries *dataset.CountryCatalog,
	rows []int,
	actual, pred []float64,
) []Prediction {
	res := make([]Prediction, len(rows))
	for i, r := range rows {
		key := tbl.Key(r)
		cn, ok := countries.Get(key.CountryCode)
		res[i] = Prediction{
			Key:       key,
			Region:    cn.Region,
			Aggregate: ok && cn.IsAggregate(),
			Actual:    actual[i],
			Predicted: pred[i],
		}
	}
	return res
}

func subset(x *mat.Dense, y []float64, rows []int) (*mat.Dense, []float64) {
	_, cols := x.Dims()
	xs := mat.NewDense(len(rows), cols, nil)
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs.SetRow(i, x.RawRowView(r))
		ys[i] = y[r]
	}
	return xs, ys
}

func wrapCancel(err error) error {
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return CancelledError(err)
	}
	return err
}
