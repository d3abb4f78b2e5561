package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Pipeline parameters are always included, zero is a meaningful value
// for most of them.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Input.DataPath
	if s != "" {
		res = append(res, OptInputDataPath(s))
	}
	s = c.Input.CountriesPath
	if s != "" {
		res = append(res, OptInputCountriesPath(s))
	}
	s = c.Input.IndicatorsPath
	if s != "" {
		res = append(res, OptInputIndicatorsPath(s))
	}
	s = c.Input.Target
	if s != "" {
		res = append(res, OptInputTarget(s))
	}

	res = append(res,
		OptFilterYearsToDrop(c.Filter.YearsToDrop),
		OptFilterCountriesToDrop(c.Filter.CountriesToDrop),
		OptFilterNotNaNThreshold(c.Filter.NotNaNThreshold),
		OptImputeNeighbors(c.Impute.Neighbors),
		OptSelectFeaturesNumber(c.Select.FeaturesNumber),
		OptSelectExcludePattern(c.Select.ExcludePattern),
		OptModelTestRatio(c.Model.TestRatio),
		OptModelSplitSeed(c.Model.SplitSeed),
		OptModelSeed(c.Model.Seed),
		OptModelTrees(c.Model.Trees),
		OptModelMaxDepth(c.Model.MaxDepth),
		OptModelMinSamplesSplit(c.Model.MinSamplesSplit),
		OptModelMinSamplesLeaf(c.Model.MinSamplesLeaf),
		OptModelMaxFeatures(c.Model.MaxFeatures),
		OptReportCharts(c.Report.Charts),
	)

	s = c.Report.Dir
	if s != "" {
		res = append(res, OptReportDir(s))
	}
	i = c.Report.NameMaxLen
	if i > 0 {
		res = append(res, OptReportNameMaxLen(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			name, val, strings.Join(lines, "\n"),
		)
		return false
	}
}
