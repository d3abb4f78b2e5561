// Package wdi defines interfaces of the impure parts of wdimodel: reading
// the dataset and writing the report.
package wdi

import (
	"context"

	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/gnames/wdimodel/pkg/quality"
)

// Loader reads the observation table and its catalogs.
// Config is provided during construction.
type Loader interface {
	// Load reads all input files and returns a validated Dataset.
	Load(ctx context.Context) (*dataset.Dataset, error)
}

// Reporter renders results of the pipeline into tables and charts.
// Failures of a Reporter never change the computed Result.
type Reporter interface {
	// Report writes all artifacts of a pipeline run. It writes as many
	// artifacts as it can and returns the joined error of those it
	// could not write.
	Report(ctx context.Context, res *pipeline.Result) error

	// ReportStats writes missingness statistics of a dataset.
	ReportStats(ctx context.Context, ds *dataset.Dataset, stats *quality.Stats) error
}
