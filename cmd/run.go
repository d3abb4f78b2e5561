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
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/wdimodel/internal/ioload"
	"github.com/gnames/wdimodel/internal/ioprogress"
	"github.com/gnames/wdimodel/internal/ioreport"
	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// getRunCmd returns the run command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Train and evaluate the model, write the report",
		Long: `Run the whole pipeline on the WDI dataset.

This command:
  1. Reads observations, country and indicator catalogs
  2. Removes the sparsest years, countries and indicators
  3. Imputes missing values from nearest neighbor rows
  4. Selects indicators most correlated with the target
  5. Fits a random forest on the train rows
  6. Evaluates predictions on the test rows and prints selected features
  7. Writes CSV tables, report.xlsx, charts and summary.json into the
     report directory

Press Ctrl-C to cancel a long run.

Examples:
  wdimodel run
  wdimodel run -t "Inflation, consumer prices (annual %)" -k 16
  wdimodel run -d ./data/wdi.csv -o ./report --no-charts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runModel(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	inputFlags(runCmd)
	modelFlags(runCmd)
	return runCmd
}

func runModel(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	cfg.Update(flagOptions(cmd, inputOpts, modelOpts))
	if err := cfg.Validate(); err != nil {
		return err
	}

	gn.Info("Loading data from <em>%s</em>", cfg.Input.DataPath)
	ds, err := ioload.New(cfg).Load(ctx)
	if err != nil {
		return err
	}

	pl := pipeline.New(cfg, pipeline.OptProgress(ioprogress.New(os.Stderr)))
	res, err := pl.Run(ctx, ds)
	if err != nil {
		return err
	}
	printSummary(res)

	if err = ioreport.New(cfg).Report(ctx, res); err != nil {
		return err
	}
	gn.Info("Report is saved to <em>%s</em>", cfg.Report.Dir)
	return nil
}

func printSummary(res *pipeline.Result) {
	f := res.Filter
	gn.Info(
		"Target: <em>%s</em> (%s)",
		res.TargetName, res.Target,
	)
	gn.Info(
		"Rows: %s, dropped %d rows without target, %d years, "+
			"%d countries, %d indicators",
		humanize.Comma(int64(f.Table.Rows())),
		f.TargetMissingRows, len(f.DroppedYears),
		len(f.DroppedCountries), len(f.DroppedIndicators),
	)
	if len(res.Excluded) > 0 {
		gn.Info("Excluded trivial indicators: %s", strings.Join(res.Excluded, ", "))
	}
	if res.Impute.Fallback > 0 {
		gn.Warn(
			"<warn>%s missing values had no donors and got column means</warn>",
			humanize.Comma(int64(res.Impute.Fallback)),
		)
	}
	gn.Info("Selected features:")
	featuresTable(os.Stdout, res)
	m := res.Metrics
	gn.Info(
		"Test rows: %d, MAE: %.4f, RMSE: %.4f, R2: %.4f",
		m.N, m.MAE, m.RMSE, m.R2,
	)
	gn.Info(
		"Run <em>%s</em> finished in %s",
		res.RunID, gnfmt.TimeString(res.Duration.Seconds()),
	)
}

// featuresTable renders selected features with their correlation to the
// target and their importance in the forest.
func featuresTable(w io.Writer, res *pipeline.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Series Code", "Indicator Name", "Correlation", "Importance"})
	table.SetAutoWrapText(false)

	imp := res.Model.Importances()
	names := res.SelectedNames()
	for i, v := range res.Selection.Selected {
		var im float64
		if i < len(imp) {
			im = imp[i]
		}
		table.Append([]string{
			v,
			names[i],
			strconv.FormatFloat(res.Selection.Scores[v], 'f', 4, 64),
			strconv.FormatFloat(im, 'f', 4, 64),
		})
	}
	table.Render()
}
