package ioreport

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/config"
	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/gnames/wdimodel/pkg/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const target = "NY.GDP.MKTP.KD.ZG"

func testDataset(t *testing.T) *dataset.Dataset {
	rng := rand.New(rand.NewPCG(3, 5))
	cols := []string{"X1", "X2", "GDPPC", target}

	var countries []dataset.Country
	var keys []dataset.Key
	var vals [][]float64
	for c := range 6 {
		code := fmt.Sprintf("C%02d", c)
		name := fmt.Sprintf("Country %d", c)
		region := "Region A"
		if c == 5 {
			code, name, region = "WLD", "World", ""
		}
		countries = append(countries, dataset.Country{Code: code, Name: name, Region: region})
		for y := range 8 {
			x1, x2 := rng.NormFloat64(), rng.NormFloat64()
			gdp := 3*x1 + 0.1*rng.NormFloat64()
			row := []float64{x1, x2, gdp, gdp}
			if c == 1 && y == 2 {
				row[1] = math.NaN()
			}
			keys = append(keys, dataset.Key{CountryName: name, CountryCode: code, Year: 2010 + y})
			vals = append(vals, row)
		}
	}

	tbl, err := dataset.NewTable(keys, cols, vals)
	require.NoError(t, err)
	inds, err := dataset.NewIndicatorCatalog([]dataset.Indicator{
		{Code: "X1", Name: "Signal indicator", Topic: "B"},
		{Code: "X2", Name: "Noise indicator", Topic: "A"},
		{Code: "GDPPC", Name: "GDP per capita (current US$)", Topic: "C"},
		{Code: target, Name: "GDP growth (annual %)", Topic: "C"},
	})
	require.NoError(t, err)
	return &dataset.Dataset{
		Table:      tbl,
		Indicators: inds,
		Countries:  dataset.NewCountryCatalog(countries),
	}
}

func testConfig(dir string, charts bool) *config.Config {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptFilterYearsToDrop(0),
		config.OptFilterCountriesToDrop(0),
		config.OptFilterNotNaNThreshold(0.5),
		config.OptImputeNeighbors(2),
		config.OptSelectFeaturesNumber(1),
		config.OptModelTrees(5),
		config.OptJobsNumber(1),
		config.OptReportDir(dir),
		config.OptReportCharts(charts),
		config.OptReportNameMaxLen(10),
	})
	return cfg
}

func run(t *testing.T, cfg *config.Config) *pipeline.Result {
	res, err := pipeline.New(cfg).Run(context.Background(), testDataset(t))
	require.NoError(t, err)
	return res
}

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg := testConfig(dir, true)
	res := run(t, cfg)

	err := New(cfg).Report(context.Background(), res)
	require.NoError(t, err)

	files := []string{
		"indicators_full.csv", "indicators_filtered.csv",
		"indicators_excluded.csv", "indicators_selected.csv",
		"missing_by_indicator.csv", "missing_by_year.csv",
		"missing_by_country.csv", "predictions.csv",
		"error_by_year.csv", "error_by_country.csv",
		"error_by_aggregate.csv", "importances.csv",
		"tree.txt", "summary.json", "report.xlsx",
		"missing_by_indicator.png", "missing_by_year.png",
		"real_vs_predicted.png", "residuals.png", "error_by_year.png",
	}
	for _, v := range files {
		info, err := os.Stat(filepath.Join(dir, v))
		require.NoError(t, err, v)
		assert.Positive(t, info.Size(), v)
	}

	full := readCSV(t, filepath.Join(dir, "indicators_full.csv"))
	assert.Equal(t, []string{"Series Code", "Indicator Name", "Topic"}, full[0])
	assert.Equal(t, "X2", full[1][0], "sorted by topic")
	assert.Equal(t, "Noise indi...", full[1][1])

	excluded := readCSV(t, filepath.Join(dir, "indicators_excluded.csv"))
	assert.Equal(t, [][]string{
		{"Series Code", "Indicator Name"},
		{"GDPPC", "GDP per ca..."},
	}, excluded)

	selected := readCSV(t, filepath.Join(dir, "indicators_selected.csv"))
	require.Len(t, selected, 2)
	assert.Equal(t, []string{"1", "X1"}, selected[1][:2])

	preds := readCSV(t, filepath.Join(dir, "predictions.csv"))
	assert.Equal(t, []string{
		"Country Name", "Country Code", "Region", "Year",
		"Real", "Predicted", "Absolute Error",
	}, preds[0])
	assert.Len(t, preds, res.TestRows+1)

	byYear := readCSV(t, filepath.Join(dir, "error_by_year.csv"))
	assert.Len(t, byYear, len(res.ErrorByYear)+1)

	tree, err := os.ReadFile(filepath.Join(dir, "tree.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(tree), "|--- Signal ind...")

	bs, err := os.ReadFile(filepath.Join(dir, "summary.json"))
	require.NoError(t, err)
	var sum map[string]any
	require.NoError(t, json.Unmarshal(bs, &sum))
	assert.Equal(t, res.RunID, sum["runId"])
	assert.Equal(t, float64(res.TestRows), sum["testRows"])
	assert.Equal(t, []any{"X1"}, sum["selected"])
}

func TestReportNoCharts(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, false)
	res := run(t, cfg)

	require.NoError(t, New(cfg).Report(context.Background(), res))
	_, err := os.Stat(filepath.Join(dir, "predictions.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "residuals.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "missing_by_year.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestReportStats(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, true)
	ds := testDataset(t)

	err := New(cfg).ReportStats(context.Background(), ds, quality.Compute(ds.Table))
	require.NoError(t, err)

	rows := readCSV(t, filepath.Join(dir, "missing_by_indicator.csv"))
	require.Len(t, rows, 5)
	assert.Equal(t, "X2", rows[1][0], "sparsest first")
	assert.Equal(t, "1", rows[1][2])

	years := readCSV(t, filepath.Join(dir, "missing_by_year.csv"))
	assert.Len(t, years, 9)
	_, err = os.Stat(filepath.Join(dir, "missing_by_year.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "predictions.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "report.xlsx"))
	assert.True(t, os.IsNotExist(err), "workbook belongs to a run")
}

func TestReportPartialFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, true)
	ds := testDataset(t)

	err := New(cfg).ReportStats(context.Background(), ds, &quality.Stats{})
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.ReportChartError, gnErr.Code)
	assert.Equal(t, errcode.ReportKind, errcode.KindOf(gnErr.Code))

	rows := readCSV(t, filepath.Join(dir, "missing_by_year.csv"))
	assert.Equal(t, [][]string{{"Year", "Missing", "Total", "Missing %"}}, rows)
}

func TestReportDirError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	cfg := testConfig(filepath.Join(file, "out"), false)
	ds := testDataset(t)

	err := New(cfg).ReportStats(context.Background(), ds, quality.Compute(ds.Table))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.CreateDirError, gnErr.Code)
}

func TestReportCancelled(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, false)
	ds := testDataset(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(cfg).ReportStats(ctx, ds, quality.Compute(ds.Table))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = os.Stat(filepath.Join(dir, "indicators_full.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestReportWorkbook(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir, false)
	res := run(t, cfg)
	require.NoError(t, New(cfg).Report(context.Background(), res))

	f, err := excelize.OpenFile(filepath.Join(dir, "report.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Len(t, sheets, 12)
	assert.Equal(t, "indicators_full", sheets[0])
	assert.Contains(t, sheets, "predictions")
	assert.Contains(t, sheets, "importances")

	val, err := f.GetCellValue("indicators_selected", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Series Code", val)
	val, err = f.GetCellValue("indicators_selected", "B2")
	require.NoError(t, err)
	assert.Equal(t, "X1", val)

	rows, err := f.GetRows("predictions")
	require.NoError(t, err)
	assert.Len(t, rows, res.TestRows+1)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, "2010", cellValue(0, "2010"), "header stays text")
	assert.Equal(t, 2010.0, cellValue(1, "2010"))
	assert.Equal(t, 0.25, cellValue(3, "0.25"))
	assert.Equal(t, "NY.GDP.MKTP.KD.ZG", cellValue(1, "NY.GDP.MKTP.KD.ZG"))
	assert.Equal(t, "", cellValue(1, ""))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		msg, s string
		n      int
		res    string
	}{
		{"short", "GDP", 10, "GDP"},
		{"exact", "GDP growth", 10, "GDP growth"},
		{"long", "GDP growth (annual %)", 10, "GDP growth..."},
		{"runes", "Économie générale", 7, "Économi..."},
		{"disabled", "GDP growth (annual %)", 0, "GDP growth (annual %)"},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, truncate(v.s, v.n), v.msg)
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.25", formatFloat(0.25))
	assert.Equal(t, "", formatFloat(math.NaN()))
	assert.Equal(t, "", formatFloat(math.Inf(1)))
	assert.True(t, strings.HasPrefix(formatFloat(1.0/3), "0.333"))
}
