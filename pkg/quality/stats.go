// Package quality computes missingness statistics of an observation table
// and removes its sparsest years, countries and indicators.
package quality

import (
	"github.com/gnames/wdimodel/pkg/dataset"
)

// IndicatorMissing is the number of missing values of an indicator over
// all rows of a table.
type IndicatorMissing struct {
	Code    string
	Missing int
	Total   int
	Percent float64
}

// YearMissing is the number of missing values of a year summed over all
// countries and indicators.
type YearMissing struct {
	Year    int
	Missing int
	Total   int
	Percent float64
}

// CountryMissing is the number of missing values of a country summed over
// all years and indicators.
type CountryMissing struct {
	Code    string
	Name    string
	Missing int
	Total   int
	Percent float64
}

// Stats contains missingness statistics of a table. Entries follow the
// order of first appearance in the table.
type Stats struct {
	Indicators []IndicatorMissing
	Years      []YearMissing
	Countries  []CountryMissing
}

// Compute returns missingness statistics of a table.
//
// A (country, year) combination absent from the table counts as if all
// its indicators were missing, so every year has
// countries × indicators cells and every country has
// years × indicators cells.
func Compute(t *dataset.Table) *Stats {
	rows, cols := t.Rows(), t.Cols()
	years := t.Years()
	countries := t.Countries()

	yearIdx := make(map[int]int, len(years))
	for i, v := range years {
		yearIdx[v] = i
	}
	countryIdx := make(map[string]int, len(countries))
	names := make([]string, len(countries))
	for i := range rows {
		k := t.Key(i)
		if _, ok := countryIdx[k.CountryCode]; !ok {
			countryIdx[k.CountryCode] = len(countryIdx)
			names[countryIdx[k.CountryCode]] = k.CountryName
		}
	}

	colMissing := make([]int, cols)
	yearObserved := make([]int, len(years))
	countryObserved := make([]int, len(countries))
	for i := range rows {
		k := t.Key(i)
		var observed int
		for j := range cols {
			if dataset.IsMissing(t.Value(i, j)) {
				colMissing[j]++
			} else {
				observed++
			}
		}
		yearObserved[yearIdx[k.Year]] += observed
		countryObserved[countryIdx[k.CountryCode]] += observed
	}

	res := &Stats{
		Indicators: make([]IndicatorMissing, cols),
		Years:      make([]YearMissing, len(years)),
		Countries:  make([]CountryMissing, len(countries)),
	}

	for j, v := range t.Columns() {
		res.Indicators[j] = IndicatorMissing{
			Code:    v,
			Missing: colMissing[j],
			Total:   rows,
			Percent: percent(colMissing[j], rows),
		}
	}

	yearTotal := len(countries) * cols
	for i, v := range years {
		missing := yearTotal - yearObserved[i]
		res.Years[i] = YearMissing{
			Year:    v,
			Missing: missing,
			Total:   yearTotal,
			Percent: percent(missing, yearTotal),
		}
	}

	countryTotal := len(years) * cols
	for i, v := range countries {
		missing := countryTotal - countryObserved[i]
		res.Countries[i] = CountryMissing{
			Code:    v,
			Name:    names[i],
			Missing: missing,
			Total:   countryTotal,
			Percent: percent(missing, countryTotal),
		}
	}

	return res
}

// IndicatorPercents returns missing percentages of all indicators.
func (s *Stats) IndicatorPercents() []float64 {
	res := make([]float64, len(s.Indicators))
	for i, v := range s.Indicators {
		res[i] = v.Percent
	}
	return res
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
