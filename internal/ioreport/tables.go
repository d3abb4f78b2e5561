package ioreport

import (
	"cmp"
	"encoding/csv"
	"math"
	"os"
	"slices"
	"strconv"

	"github.com/gnames/wdimodel/internal/iofs"
	"github.com/gnames/wdimodel/pkg/dataset"
	"github.com/gnames/wdimodel/pkg/metrics"
	"github.com/gnames/wdimodel/pkg/pipeline"
	"github.com/gnames/wdimodel/pkg/quality"
)

const (
	colSeriesCode  = "Series Code"
	colIndName     = "Indicator Name"
	colTopic       = "Topic"
	colCountryName = "Country Name"
	colCountryCode = "Country Code"
	colMissing     = "Missing"
	colTotal       = "Total"
	colPercent     = "Missing %"
)

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return iofs.WriteFileError(path, err)
	}

	w := csv.NewWriter(f)
	err = w.WriteAll(rows)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return iofs.WriteFileError(path, err)
	}
	return nil
}

func (r *reporter) indicatorsFull(ds *dataset.Dataset) [][]string {
	res := [][]string{{colSeriesCode, colIndName, colTopic}}
	for _, v := range ds.Indicators.SortedByTopic() {
		res = append(res, []string{
			v.Code, truncate(v.Name, r.cfg.NameMaxLen), v.Topic,
		})
	}
	return res
}

func (r *reporter) indicatorsFiltered(res *pipeline.Result) [][]string {
	rows := [][]string{{colSeriesCode, colIndName, colTopic}}
	for _, v := range res.Dataset.Indicators.Subset(res.Filter.Indicators) {
		rows = append(rows, []string{
			v.Code, truncate(v.Name, r.cfg.NameMaxLen), v.Topic,
		})
	}
	return rows
}

func (r *reporter) indicatorsExcluded(res *pipeline.Result) [][]string {
	rows := [][]string{{colSeriesCode, colIndName}}
	for _, v := range res.Excluded {
		rows = append(rows, []string{v, r.name(res.Dataset, v)})
	}
	return rows
}

// indicatorsSelected lists selected features from the best score down.
func (r *reporter) indicatorsSelected(res *pipeline.Result) [][]string {
	rows := [][]string{{"Rank", colSeriesCode, colIndName, "Score"}}
	selected := make(map[string]struct{}, len(res.Selection.Selected))
	for _, v := range res.Selection.Selected {
		selected[v] = struct{}{}
	}
	for _, v := range res.Selection.Ranking {
		if _, ok := selected[v.Name]; !ok {
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(v.Rank),
			v.Name,
			r.name(res.Dataset, v.Name),
			formatFloat(v.Score),
		})
	}
	return rows
}

// missingByIndicator lists indicators from the sparsest down.
func (r *reporter) missingByIndicator(
	ds *dataset.Dataset,
	stats *quality.Stats,
) [][]string {
	inds := slices.Clone(stats.Indicators)
	slices.SortStableFunc(inds, func(a, b quality.IndicatorMissing) int {
		return cmp.Compare(b.Percent, a.Percent)
	})

	rows := [][]string{
		{colSeriesCode, colIndName, colMissing, colTotal, colPercent},
	}
	for _, v := range inds {
		rows = append(rows, []string{
			v.Code,
			r.name(ds, v.Code),
			strconv.Itoa(v.Missing),
			strconv.Itoa(v.Total),
			formatFloat(v.Percent),
		})
	}
	return rows
}

func missingByYear(stats *quality.Stats) [][]string {
	rows := [][]string{{"Year", colMissing, colTotal, colPercent}}
	for _, v := range stats.Years {
		rows = append(rows, []string{
			strconv.Itoa(v.Year),
			strconv.Itoa(v.Missing),
			strconv.Itoa(v.Total),
			formatFloat(v.Percent),
		})
	}
	return rows
}

func missingByCountry(stats *quality.Stats) [][]string {
	rows := [][]string{
		{colCountryCode, colCountryName, colMissing, colTotal, colPercent},
	}
	for _, v := range stats.Countries {
		rows = append(rows, []string{
			v.Code,
			v.Name,
			strconv.Itoa(v.Missing),
			strconv.Itoa(v.Total),
			formatFloat(v.Percent),
		})
	}
	return rows
}

func predictions(res *pipeline.Result) [][]string {
	rows := [][]string{{
		colCountryName, colCountryCode, "Region", "Year",
		"Real", "Predicted", "Absolute Error",
	}}
	for _, v := range res.Predictions {
		rows = append(rows, []string{
			v.Key.CountryName,
			v.Key.CountryCode,
			v.Region,
			strconv.Itoa(v.Key.Year),
			formatFloat(v.Actual),
			formatFloat(v.Predicted),
			formatFloat(v.AbsError()),
		})
	}
	return rows
}

func groupErrors(key string, errs []metrics.GroupError) [][]string {
	rows := [][]string{{key, "MAE", "N"}}
	for _, v := range errs {
		rows = append(rows, []string{
			v.Key, formatFloat(v.MAE), strconv.Itoa(v.N),
		})
	}
	return rows
}

// importances lists selected features from the most important down.
func (r *reporter) importances(res *pipeline.Result) [][]string {
	type imp struct {
		code string
		val  float64
	}
	vals := res.Model.Importances()
	list := make([]imp, len(vals))
	for i, v := range vals {
		list[i] = imp{code: res.Selection.Selected[i], val: v}
	}
	slices.SortStableFunc(list, func(a, b imp) int {
		return cmp.Compare(b.val, a.val)
	})

	rows := [][]string{{colSeriesCode, colIndName, "Importance"}}
	for _, v := range list {
		rows = append(rows, []string{
			v.code, r.name(res.Dataset, v.code), formatFloat(v.val),
		})
	}
	return rows
}

func (r *reporter) writeTree(path string, res *pipeline.Result) error {
	names := res.SelectedNames()
	for i := range names {
		names[i] = truncate(names[i], r.cfg.NameMaxLen)
	}
	txt := res.Model.Tree(0).Format(names, treeDepth)
	if err := os.WriteFile(path, []byte(txt), 0644); err != nil {
		return iofs.WriteFileError(path, err)
	}
	return nil
}

// formatFloat renders missing values as empty cells.
func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
