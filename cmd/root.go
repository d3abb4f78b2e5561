/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/internal/iofs"
	"github.com/gnames/wdimodel/internal/iologger"
	app "github.com/gnames/wdimodel/pkg"
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir   string
	opts      []config.Option
	cfg       *config.Config
	logCloser io.Closer
)

// getRootCmd returns the root command with all subcommands.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "wdimodel",
		Short:   "WDImodel predicts a World Development Indicator from the others",
		Long: `WDImodel trains a random forest that predicts one World Development
Indicator (GDP growth by default) from the rest of the indicators.

The run command goes through these stages:
  - quality filter: drops the sparsest years, countries and indicators
  - imputation: fills missing values from nearest neighbor rows
  - feature selection: keeps indicators most correlated with the target
  - regression: fits a random forest and evaluates it on held out rows
  - report: writes tables, charts and a summary

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (WDIMODEL_*)
  3. Config file (~/.config/wdimodel/config.yaml)
  4. Built-in defaults

Nested fields use underscores (filter.years_to_drop becomes
WDIMODEL_FILTER_YEARS_TO_DROP).`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "wdimodel version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for wdimodel")

	rootCmd.AddCommand(getRunCmd(), getStatsCmd(), getConfigCmd())
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = initLogging(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings and proper log file location
	if err = initLogging(config.LogDir(cfg.HomeDir), cfg.Log); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded", "config_file", config.ConfigFilePath(homeDir))

	return nil
}

// initLogging closes the previous log file, if any, and starts a new
// logger.
func initLogging(logDir string, logCfg config.LogConfig) error {
	closeLogging()
	var err error
	logCloser, err = iologger.Init(logDir, logCfg)
	return err
}

func closeLogging() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	closeLogging()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	setDefaults(v, config.New())
	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// setDefaults keeps built-in values for keys absent from config.yaml.
func setDefaults(v *viper.Viper, d *config.Config) {
	v.SetDefault("input.data_path", d.Input.DataPath)
	v.SetDefault("input.countries_path", d.Input.CountriesPath)
	v.SetDefault("input.indicators_path", d.Input.IndicatorsPath)
	v.SetDefault("input.target", d.Input.Target)

	v.SetDefault("filter.years_to_drop", d.Filter.YearsToDrop)
	v.SetDefault("filter.countries_to_drop", d.Filter.CountriesToDrop)
	v.SetDefault("filter.not_nan_threshold", d.Filter.NotNaNThreshold)

	v.SetDefault("impute.neighbors", d.Impute.Neighbors)

	v.SetDefault("select.features_number", d.Select.FeaturesNumber)
	v.SetDefault("select.exclude_pattern", d.Select.ExcludePattern)

	v.SetDefault("model.test_ratio", d.Model.TestRatio)
	v.SetDefault("model.split_seed", d.Model.SplitSeed)
	v.SetDefault("model.seed", d.Model.Seed)
	v.SetDefault("model.trees", d.Model.Trees)
	v.SetDefault("model.max_depth", d.Model.MaxDepth)
	v.SetDefault("model.min_samples_split", d.Model.MinSamplesSplit)
	v.SetDefault("model.min_samples_leaf", d.Model.MinSamplesLeaf)
	v.SetDefault("model.max_features", d.Model.MaxFeatures)

	v.SetDefault("report.dir", d.Report.Dir)
	v.SetDefault("report.charts", d.Report.Charts)
	v.SetDefault("report.name_max_len", d.Report.NameMaxLen)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.destination", d.Log.Destination)

	v.SetDefault("jobs_number", d.JobsNumber)
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("WDIMODEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Input configuration
	v.BindEnv("input.data_path")
	v.BindEnv("input.countries_path")
	v.BindEnv("input.indicators_path")
	v.BindEnv("input.target")

	// Pipeline configuration
	v.BindEnv("filter.years_to_drop")
	v.BindEnv("filter.countries_to_drop")
	v.BindEnv("filter.not_nan_threshold")
	v.BindEnv("impute.neighbors")
	v.BindEnv("select.features_number")
	v.BindEnv("select.exclude_pattern")
	v.BindEnv("model.test_ratio")
	v.BindEnv("model.split_seed")
	v.BindEnv("model.seed")
	v.BindEnv("model.trees")
	v.BindEnv("model.max_depth")
	v.BindEnv("model.min_samples_split")
	v.BindEnv("model.min_samples_leaf")
	v.BindEnv("model.max_features")

	// Report configuration
	v.BindEnv("report.dir")
	v.BindEnv("report.charts")
	v.BindEnv("report.name_max_len")

	// Log configuration
	v.BindEnv("log.level")
	v.BindEnv("log.format")
	v.BindEnv("log.destination")

	// General configuration
	v.BindEnv("jobs_number")

	v.AutomaticEnv()
}
