package config

import (
	"math"
	"regexp"
)

// Validate checks pipeline parameters and returns a ConfigError for the
// first value out of its range. It must be called before any stage runs.
// The check of FeaturesNumber against the number of available indicators
// needs the dataset and is done by the pipeline.
func (c *Config) Validate() error {
	f := c.Filter
	if math.IsNaN(f.NotNaNThreshold) ||
		f.NotNaNThreshold < 0 || f.NotNaNThreshold > 1 {
		return ThresholdError("filter.not_nan_threshold", f.NotNaNThreshold)
	}
	if f.YearsToDrop < 0 {
		return DropCountError("filter.years_to_drop", f.YearsToDrop)
	}
	if f.CountriesToDrop < 0 {
		return DropCountError("filter.countries_to_drop", f.CountriesToDrop)
	}

	if c.Impute.Neighbors <= 0 {
		return NeighborsError(c.Impute.Neighbors)
	}

	if c.Select.FeaturesNumber <= 0 {
		return FeaturesError(c.Select.FeaturesNumber)
	}
	if c.Select.ExcludePattern != "" {
		if _, err := regexp.Compile(c.Select.ExcludePattern); err != nil {
			return PatternError(c.Select.ExcludePattern, err)
		}
	}

	m := c.Model
	if math.IsNaN(m.TestRatio) || m.TestRatio <= 0 || m.TestRatio >= 1 {
		return TestRatioError(m.TestRatio)
	}
	switch {
	case m.Trees <= 0:
		return ForestError("model.trees", m.Trees)
	case m.MaxDepth < 0:
		return ForestError("model.max_depth", m.MaxDepth)
	case m.MinSamplesSplit < 2:
		return ForestError("model.min_samples_split", m.MinSamplesSplit)
	case m.MinSamplesLeaf < 1:
		return ForestError("model.min_samples_leaf", m.MinSamplesLeaf)
	case math.IsNaN(m.MaxFeatures) || m.MaxFeatures <= 0 || m.MaxFeatures > 1:
		return ForestError("model.max_features", m.MaxFeatures)
	}

	return nil
}
