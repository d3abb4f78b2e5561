// Package ioreport writes tables, charts and a summary of a pipeline run
// into the report directory.
//
// Every artifact is written independently. A failed artifact does not stop
// the others, all failures are returned together.
package ioreport

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/wdimodel/internal/iofs"
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/gnames/wdimodel/pkg/quality"
	"github.com/gnames/wdimodel/pkg/wdi"
)

const (
	// Depth of the tree rendered into tree.txt.
	treeDepth = 2

	workbookFile = "report.xlsx"
)

type reporter struct {
	cfg config.ReportConfig
}

// artifact is one output file and the function that writes it.
type artifact struct {
	file  string
	write func(path string) error
}

// New creates a Reporter that writes into the report directory of the
// config.
func New(cfg *config.Config) wdi.Reporter {
	return &reporter{cfg: cfg.Report}
}

// Report writes all artifacts of a pipeline run.
func (r *reporter) Report(ctx context.Context, res *pipeline.Result) error {
	tables := append(
		r.statsTables(res.Dataset, res.Filter.Stats),
		r.runTables(res)...,
	)
	arts := csvArtifacts(tables)
	arts = append(arts, r.runArtifacts(res)...)
	arts = append(arts, artifact{workbookFile, func(p string) error {
		return writeWorkbook(p, tables)
	}})
	if r.cfg.Charts {
		arts = append(arts, r.statsCharts(res.Filter.Stats)...)
		arts = append(arts, r.runCharts(res)...)
	}
	return r.write(ctx, arts)
}

// ReportStats writes the indicator catalog and missingness statistics.
func (r *reporter) ReportStats(
	ctx context.Context,
	ds *dataset.Dataset,
	stats *quality.Stats,
) error {
	arts := csvArtifacts(r.statsTables(ds, stats))
	if r.cfg.Charts {
		arts = append(arts, r.statsCharts(stats)...)
	}
	return r.write(ctx, arts)
}

// table is a tabular artifact. It is written as name.csv and as a sheet
// of the workbook.
type table struct {
	name string
	rows func() [][]string
}

func (r *reporter) statsTables(
	ds *dataset.Dataset,
	stats *quality.Stats,
) []table {
	return []table{
		{"indicators_full", func() [][]string {
			return r.indicatorsFull(ds)
		}},
		{"missing_by_indicator", func() [][]string {
			return r.missingByIndicator(ds, stats)
		}},
		{"missing_by_year", func() [][]string {
			return missingByYear(stats)
		}},
		{"missing_by_country", func() [][]string {
			return missingByCountry(stats)
		}},
	}
}

func (r *reporter) runTables(res *pipeline.Result) []table {
	return []table{
		{"indicators_filtered", func() [][]string {
			return r.indicatorsFiltered(res)
		}},
		{"indicators_excluded", func() [][]string {
			return r.indicatorsExcluded(res)
		}},
		{"indicators_selected", func() [][]string {
			return r.indicatorsSelected(res)
		}},
		{"predictions", func() [][]string {
			return predictions(res)
		}},
		{"error_by_year", func() [][]string {
			return groupErrors("Year", res.ErrorByYear)
		}},
		{"error_by_country", func() [][]string {
			return groupErrors(colCountryName, res.ErrorByCountry)
		}},
		{"error_by_aggregate", func() [][]string {
			return groupErrors(colCountryName, res.ErrorByAggregate)
		}},
		{"importances", func() [][]string {
			return r.importances(res)
		}},
	}
}

func csvArtifacts(tables []table) []artifact {
	res := make([]artifact, len(tables))
	for i, v := range tables {
		res[i] = artifact{v.name + ".csv", func(p string) error {
			return writeCSV(p, v.rows())
		}}
	}
	return res
}

func (r *reporter) statsCharts(stats *quality.Stats) []artifact {
	return []artifact{
		{"missing_by_indicator.png", func(p string) error {
			return missingHistogram(p, stats)
		}},
		{"missing_by_year.png", func(p string) error {
			return missingYearChart(p, stats)
		}},
	}
}

func (r *reporter) runArtifacts(res *pipeline.Result) []artifact {
	return []artifact{
		{"tree.txt", func(p string) error {
			return r.writeTree(p, res)
		}},
		{"summary.json", func(p string) error {
			return writeSummary(p, res)
		}},
	}
}

func (r *reporter) runCharts(res *pipeline.Result) []artifact {
	return []artifact{
		{"real_vs_predicted.png", func(p string) error {
			return realVsPredictedChart(p, res)
		}},
		{"residuals.png", func(p string) error {
			return residualsChart(p, res)
		}},
		{"error_by_year.png", func(p string) error {
			return errorByYearChart(p, res)
		}},
	}
}

func (r *reporter) write(ctx context.Context, arts []artifact) error {
	if err := iofs.EnsureDir(r.cfg.Dir); err != nil {
		return err
	}

	var errs []error
	var count int
	for _, v := range arts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		path := filepath.Join(r.cfg.Dir, v.file)
		if err := v.write(path); err != nil {
			slog.Error("Cannot write artifact", "path", path, "error", err)
			errs = append(errs, err)
			continue
		}
		count++
	}

	slog.Info("Report is written",
		"dir", r.cfg.Dir,
		"artifacts", humanize.Comma(int64(count)),
		"failed", len(arts)-count,
	)
	return errors.Join(errs...)
}

// name returns indicator name truncated to the configured length.
func (r *reporter) name(ds *dataset.Dataset, code string) string {
	return truncate(ds.Indicators.Name(code), r.cfg.NameMaxLen)
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	rs := []rune(s)
	if len(rs) <= n {
		return s
	}
	return string(rs[:n]) + "..."
}
