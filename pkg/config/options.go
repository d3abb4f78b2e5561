package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Plumbing options validate inputs and reject invalid values with warnings.
// Pipeline parameter options store values as given, see Validate.
type Option func(*Config)

// OptInputDataPath sets the path to the observation table.
func OptInputDataPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input Data Path", s) {
			c.Input.DataPath = s
		}
	}
}

// OptInputCountriesPath sets the path to the country catalog.
func OptInputCountriesPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input Countries Path", s) {
			c.Input.CountriesPath = s
		}
	}
}

// OptInputIndicatorsPath sets the path to the indicator catalog.
func OptInputIndicatorsPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input Indicators Path", s) {
			c.Input.IndicatorsPath = s
		}
	}
}

// OptInputTarget sets the Indicator Name of the predicted indicator.
func OptInputTarget(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Input Target", s) {
			c.Input.Target = s
		}
	}
}

// OptFilterYearsToDrop sets how many of the emptiest years are removed.
func OptFilterYearsToDrop(i int) Option {
	return func(c *Config) {
		c.Filter.YearsToDrop = i
	}
}

// OptFilterCountriesToDrop sets how many of the emptiest countries are
// removed.
func OptFilterCountriesToDrop(i int) Option {
	return func(c *Config) {
		c.Filter.CountriesToDrop = i
	}
}

// OptFilterNotNaNThreshold sets the minimal non-missing fraction of a kept
// indicator.
func OptFilterNotNaNThreshold(f float64) Option {
	return func(c *Config) {
		c.Filter.NotNaNThreshold = f
	}
}

// OptImputeNeighbors sets the number of donors of the imputer.
func OptImputeNeighbors(i int) Option {
	return func(c *Config) {
		c.Impute.Neighbors = i
	}
}

// OptSelectFeaturesNumber sets how many features are selected.
func OptSelectFeaturesNumber(i int) Option {
	return func(c *Config) {
		c.Select.FeaturesNumber = i
	}
}

// OptSelectExcludePattern sets the regular expression of excluded
// indicator names. Empty string disables exclusion.
func OptSelectExcludePattern(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		c.Select.ExcludePattern = s
	}
}

// OptModelTestRatio sets the share of rows held out for testing.
func OptModelTestRatio(f float64) Option {
	return func(c *Config) {
		c.Model.TestRatio = f
	}
}

// OptModelSplitSeed sets the seed of the train/test permutation.
func OptModelSplitSeed(i int) Option {
	return func(c *Config) {
		c.Model.SplitSeed = i
	}
}

// OptModelSeed sets the seed of the random forest.
func OptModelSeed(i int) Option {
	return func(c *Config) {
		c.Model.Seed = i
	}
}

// OptModelTrees sets the number of trees.
func OptModelTrees(i int) Option {
	return func(c *Config) {
		c.Model.Trees = i
	}
}

// OptModelMaxDepth sets the maximal tree depth, 0 means unlimited.
func OptModelMaxDepth(i int) Option {
	return func(c *Config) {
		c.Model.MaxDepth = i
	}
}

// OptModelMinSamplesSplit sets the minimal size of a node to be split.
func OptModelMinSamplesSplit(i int) Option {
	return func(c *Config) {
		c.Model.MinSamplesSplit = i
	}
}

// OptModelMinSamplesLeaf sets the minimal size of a leaf.
func OptModelMinSamplesLeaf(i int) Option {
	return func(c *Config) {
		c.Model.MinSamplesLeaf = i
	}
}

// OptModelMaxFeatures sets the fraction of features tried at every split.
func OptModelMaxFeatures(f float64) Option {
	return func(c *Config) {
		c.Model.MaxFeatures = f
	}
}

// OptReportDir sets the output directory.
func OptReportDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Report Dir", s) {
			c.Report.Dir = s
		}
	}
}

// OptReportCharts enables or disables PNG charts.
func OptReportCharts(b bool) Option {
	return func(c *Config) {
		c.Report.Charts = b
	}
}

// OptReportNameMaxLen sets the length indicator names are truncated to.
func OptReportNameMaxLen(i int) Option {
	return func(c *Config) {
		if isValidInt("Report Name Max Length", i) {
			c.Report.NameMaxLen = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
