package cmd

import (
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/spf13/cobra"
)

// flagOpt returns a config option of a flag, or nil if the flag was not
// set by the user.
type flagOpt func(cmd *cobra.Command) config.Option

func inputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("data", "d", "", "observations CSV file")
	cmd.Flags().StringP("countries", "c", "", "country catalog CSV file")
	cmd.Flags().StringP("indicators", "i", "", "indicator catalog CSV file")
	cmd.Flags().StringP("target", "t", "", "name of the predicted indicator")
	cmd.Flags().StringP("output", "o", "", "report directory")
	cmd.Flags().Bool("no-charts", false, "do not create PNG charts")
}

func modelFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "number of concurrent workers")
	cmd.Flags().IntP("features", "k", 0, "number of selected features")
	cmd.Flags().IntP("neighbors", "n", 0, "number of imputation neighbors")
	cmd.Flags().Int("trees", 0, "number of trees in the forest")
	cmd.Flags().IntP("seed", "s", 0, "random seed of the forest")
	cmd.Flags().Float64("test-ratio", 0, "share of rows held out for testing")
}

var inputOpts = []flagOpt{
	stringOpt("data", config.OptInputDataPath),
	stringOpt("countries", config.OptInputCountriesPath),
	stringOpt("indicators", config.OptInputIndicatorsPath),
	stringOpt("target", config.OptInputTarget),
	stringOpt("output", config.OptReportDir),
	func(cmd *cobra.Command) config.Option {
		if !cmd.Flags().Changed("no-charts") {
			return nil
		}
		noCharts, _ := cmd.Flags().GetBool("no-charts")
		return config.OptReportCharts(!noCharts)
	},
}

var modelOpts = []flagOpt{
	intOpt("jobs", config.OptJobsNumber),
	intOpt("features", config.OptSelectFeaturesNumber),
	intOpt("neighbors", config.OptImputeNeighbors),
	intOpt("trees", config.OptModelTrees),
	intOpt("seed", config.OptModelSeed),
	func(cmd *cobra.Command) config.Option {
		if !cmd.Flags().Changed("test-ratio") {
			return nil
		}
		f, _ := cmd.Flags().GetFloat64("test-ratio")
		return config.OptModelTestRatio(f)
	},
}

// flagOptions collects options of flags set by the user.
func flagOptions(cmd *cobra.Command, fns ...[]flagOpt) []config.Option {
	var res []config.Option
	for _, list := range fns {
		for _, fn := range list {
			if opt := fn(cmd); opt != nil {
				res = append(res, opt)
			}
		}
	}
	return res
}

func stringOpt(name string, opt func(string) config.Option) flagOpt {
	return func(cmd *cobra.Command) config.Option {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		s, _ := cmd.Flags().GetString(name)
		return opt(s)
	}
}

func intOpt(name string, opt func(int) config.Option) flagOpt {
	return func(cmd *cobra.Command) config.Option {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		i, _ := cmd.Flags().GetInt(name)
		return opt(i)
	}
}
