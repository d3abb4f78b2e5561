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
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/internal/ioload"
	"github.com/gnames/wdimodel/internal/ioreport"
	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/spf13/cobra"
)

// getStatsCmd returns the stats command.
func getStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Report missing values of the dataset",
		Long: `Read the dataset and write missing value statistics by indicator,
year and country into the report directory. No model is trained.

Examples:
  wdimodel stats
  wdimodel stats -d ./data/wdi.csv -o ./report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runStats(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	inputFlags(statsCmd)
	return statsCmd
}

func runStats(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	cfg.Update(flagOptions(cmd, inputOpts))

	ds, err := ioload.New(cfg).Load(ctx)
	if err != nil {
		return err
	}

	stats := pipeline.New(cfg).Stats(ds)
	if err = ioreport.New(cfg).ReportStats(ctx, ds, stats); err != nil {
		return err
	}
	gn.Info(
		"Statistics of %d indicators are saved to <em>%s</em>",
		len(stats.Indicators), cfg.Report.Dir,
	)
	return nil
}
