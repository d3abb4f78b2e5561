// Package config provides configuration management for wdimodel.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
//   - Default config (from New()) is always valid.
//   - All mutations go through Option functions.
//   - Plumbing options (paths, logs, jobs) reject invalid values with
//     gn.Warn() and keep the previous value.
//   - Pipeline parameters (thresholds, counts, ratios, seeds) are stored as
//     given; Validate() reports out-of-range values as ConfigError before
//     any stage runs.
//   - ToOptions() converts persistent fields (those in config.yaml).
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Input: data_path, countries_path, indicators_path, target
//   - Filter, Impute, Select, Model, Report sections
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields:
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use WDIMODEL_ prefix with underscores for nesting:
//
//	WDIMODEL_INPUT_DATA_PATH=./data/wdi.csv
//	WDIMODEL_FILTER_YEARS_TO_DROP=10
//	WDIMODEL_MODEL_SEED=42
//	WDIMODEL_LOG_LEVEL=debug
package config

import (
	"runtime"
)

// Config represents the complete wdimodel configuration.
type Config struct {
	// Input contains locations of the dataset files and the target name.
	Input InputConfig `mapstructure:"input" yaml:"input"`

	// Filter contains thresholds of the quality filter.
	Filter FilterConfig `mapstructure:"filter" yaml:"filter"`

	// Impute contains settings of the nearest-neighbors imputer.
	Impute ImputeConfig `mapstructure:"impute" yaml:"impute"`

	// Select contains settings of the feature selector.
	Select SelectConfig `mapstructure:"select" yaml:"select"`

	// Model contains settings of the train/test split and random forest.
	Model ModelConfig `mapstructure:"model" yaml:"model"`

	// Report contains settings of output tables and charts.
	Report ReportConfig `mapstructure:"report" yaml:"report"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for imputation and
	// forest fitting. Results do not depend on it.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `yaml:"-"`
}

// InputConfig describes the dataset files.
type InputConfig struct {
	// DataPath is the observation table: Country Name, Country Code, Year
	// and one column per indicator code.
	DataPath string `mapstructure:"data_path" yaml:"data_path"`

	// CountriesPath is the country catalog indexed by Country Code.
	CountriesPath string `mapstructure:"countries_path" yaml:"countries_path"`

	// IndicatorsPath is the indicator catalog indexed by Series Code.
	IndicatorsPath string `mapstructure:"indicators_path" yaml:"indicators_path"`

	// Target is the exact Indicator Name of the predicted indicator.
	Target string `mapstructure:"target" yaml:"target"`
}

// FilterConfig contains quality filter thresholds.
type FilterConfig struct {
	// YearsToDrop is how many years with most missing values are removed.
	YearsToDrop int `mapstructure:"years_to_drop" yaml:"years_to_drop"`

	// CountriesToDrop is how many countries with most missing values are
	// removed.
	CountriesToDrop int `mapstructure:"countries_to_drop" yaml:"countries_to_drop"`

	// NotNaNThreshold is the minimal fraction of non-missing values an
	// indicator needs to be kept. Must be within [0, 1].
	NotNaNThreshold float64 `mapstructure:"not_nan_threshold" yaml:"not_nan_threshold"`
}

// ImputeConfig contains nearest-neighbors imputer settings.
type ImputeConfig struct {
	// Neighbors is the number of donors averaged for a missing cell.
	Neighbors int `mapstructure:"neighbors" yaml:"neighbors"`
}

// SelectConfig contains feature selector settings.
type SelectConfig struct {
	// FeaturesNumber is how many indicators are kept as model features.
	FeaturesNumber int `mapstructure:"features_number" yaml:"features_number"`

	// ExcludePattern is a regular expression. Indicators with a matching
	// name are removed from features before selection. Empty disables it.
	ExcludePattern string `mapstructure:"exclude_pattern" yaml:"exclude_pattern"`
}

// ModelConfig contains train/test split and random forest settings.
type ModelConfig struct {
	// TestRatio is the share of rows held out for testing, within (0, 1).
	TestRatio float64 `mapstructure:"test_ratio" yaml:"test_ratio"`

	// SplitSeed seeds the train/test permutation.
	SplitSeed int `mapstructure:"split_seed" yaml:"split_seed"`

	// Seed seeds bootstrap sampling and feature subsampling of the forest.
	Seed int `mapstructure:"seed" yaml:"seed"`

	// Trees is the number of trees in the forest.
	Trees int `mapstructure:"trees" yaml:"trees"`

	// MaxDepth limits tree depth, 0 means unlimited.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// MinSamplesSplit is the minimal node size that can be split.
	MinSamplesSplit int `mapstructure:"min_samples_split" yaml:"min_samples_split"`

	// MinSamplesLeaf is the minimal size of a leaf.
	MinSamplesLeaf int `mapstructure:"min_samples_leaf" yaml:"min_samples_leaf"`

	// MaxFeatures is the fraction of features tried at every split,
	// within (0, 1].
	MaxFeatures float64 `mapstructure:"max_features" yaml:"max_features"`
}

// ReportConfig contains settings for output artifacts.
type ReportConfig struct {
	// Dir is where tables, charts and the summary are written.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// Charts enables PNG charts.
	Charts bool `mapstructure:"charts" yaml:"charts"`

	// NameMaxLen truncates indicator names in tables, "..." is appended.
	NameMaxLen int `mapstructure:"name_max_len" yaml:"name_max_len"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Input: InputConfig{
			DataPath:       "./dataframes/WDItratado.csv",
			CountriesPath:  "./dataframes/WDICountry.csv",
			IndicatorsPath: "./dataframes/WDISeries.csv",
			Target:         "GDP growth (annual %)",
		},
		Filter: FilterConfig{
			YearsToDrop:     16, // a quarter of all years
			CountriesToDrop: 28, // about 10% of countries and regions
			NotNaNThreshold: 0.6,
		},
		Impute: ImputeConfig{
			Neighbors: 10,
		},
		Select: SelectConfig{
			FeaturesNumber: 32,
			ExcludePattern: "GDP",
		},
		Model: ModelConfig{
			TestRatio:       0.25,
			SplitSeed:       200,
			Seed:            0,
			Trees:           100,
			MaxDepth:        0,
			MinSamplesSplit: 2,
			MinSamplesLeaf:  1,
			MaxFeatures:     1.0,
		},
		Report: ReportConfig{
			Dir:        "./output",
			Charts:     true,
			NameMaxLen: 49,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
