package ioreport

import (
	"errors"
	"image/color"
	"math"
	"slices"
	"strconv"

	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/gnames/wdimodel/pkg/quality"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	histBins    = 20
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	errNoData = errors.New("no data to draw")

	colorIdeal = color.RGBA{R: 200, A: 255}
	colorFit   = color.RGBA{B: 200, A: 255}
)

func newPlot(title, x, y string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = x
	p.Y.Label.Text = y
	p.Add(plotter.NewGrid())
	return p
}

func savePlot(p *plot.Plot, path string) error {
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return ChartError(path, err)
	}
	return nil
}

// missingHistogram shows how many indicators have a given share of
// missing values.
func missingHistogram(path string, stats *quality.Stats) error {
	vals := stats.IndicatorPercents()
	if len(vals) == 0 {
		return ChartError(path, errNoData)
	}

	p := newPlot("Missing values per indicator", "Missing, %", "Indicators")
	h, err := plotter.NewHist(plotter.Values(vals), histBins)
	if err != nil {
		return ChartError(path, err)
	}
	p.Add(h)
	return savePlot(p, path)
}

func missingYearChart(path string, stats *quality.Stats) error {
	if len(stats.Years) == 0 {
		return ChartError(path, errNoData)
	}

	years := slices.Clone(stats.Years)
	slices.SortFunc(years, func(a, b quality.YearMissing) int {
		return a.Year - b.Year
	})
	vals := make(plotter.Values, len(years))
	labels := make([]string, len(years))
	for i, v := range years {
		vals[i] = v.Percent
		labels[i] = strconv.Itoa(v.Year)
	}

	p := newPlot("Missing values per year", "Year", "Missing, %")
	return barChart(p, path, vals, labels)
}

// realVsPredictedChart draws test predictions against real values with
// the ideal y = x line and the fitted regression line.
func realVsPredictedChart(path string, res *pipeline.Result) error {
	if len(res.Predictions) == 0 {
		return ChartError(path, errNoData)
	}

	actual, pred := res.Actuals(), res.Predicted()
	pts := make(plotter.XYs, len(actual))
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = pred[i]
	}
	lo, hi := slices.Min(actual), slices.Max(actual)

	p := newPlot(res.TargetName, "Real", "Predicted")
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return ChartError(path, err)
	}
	sc.GlyphStyle.Radius = vg.Points(2)

	ideal, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return ChartError(path, err)
	}
	ideal.LineStyle.Color = colorIdeal
	ideal.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	ln := res.Metrics.Line
	fit, err := plotter.NewLine(plotter.XYs{
		{X: lo, Y: ln.Intercept + ln.Slope*lo},
		{X: hi, Y: ln.Intercept + ln.Slope*hi},
	})
	if err != nil {
		return ChartError(path, err)
	}
	fit.LineStyle.Color = colorFit

	p.Add(sc, ideal, fit)
	p.Legend.Add("test rows", sc)
	p.Legend.Add("ideal", ideal)
	p.Legend.Add("fitted, r = "+strconv.FormatFloat(ln.R, 'f', 3, 64), fit)
	p.Legend.Top = true
	p.Legend.Left = true
	return savePlot(p, path)
}

// residualsChart draws residuals against predicted values.
func residualsChart(path string, res *pipeline.Result) error {
	if len(res.Predictions) == 0 {
		return ChartError(path, errNoData)
	}

	pts := make(plotter.XYs, len(res.Predictions))
	for i, v := range res.Predictions {
		pts[i].X = v.Predicted
		pts[i].Y = v.Residual()
	}

	p := newPlot("Residuals", "Predicted", "Predicted - Real")
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return ChartError(path, err)
	}
	sc.GlyphStyle.Radius = vg.Points(2)
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.LineStyle.Color = colorIdeal
	p.Add(sc, zero)
	return savePlot(p, path)
}

func errorByYearChart(path string, res *pipeline.Result) error {
	if len(res.ErrorByYear) == 0 {
		return ChartError(path, errNoData)
	}

	vals := make(plotter.Values, len(res.ErrorByYear))
	labels := make([]string, len(res.ErrorByYear))
	for i, v := range res.ErrorByYear {
		vals[i] = v.MAE
		labels[i] = v.Key
	}

	p := newPlot("Mean absolute error per year", "Year", "MAE")
	return barChart(p, path, vals, labels)
}

func barChart(p *plot.Plot, path string, vals plotter.Values, labels []string) error {
	bars, err := plotter.NewBarChart(vals, vg.Points(8))
	if err != nil {
		return ChartError(path, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = colorFit
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return savePlot(p, path)
}
