package quality

import (
	"cmp"
	"log/slog"
	"math"
	"slices"

	"github.com/gnames/wdimodel/pkg/dataset"
)

// Thresholds configure the quality filter.
type Thresholds struct {
	// YearsToDrop is how many years with most missing values are removed.
	YearsToDrop int

	// CountriesToDrop is how many countries with most missing values are
	// removed.
	CountriesToDrop int

	// NotNaNThreshold is the minimal fraction of non-missing values of a
	// kept indicator.
	NotNaNThreshold float64
}

// Result is the outcome of the quality filter.
type Result struct {
	// Table is the filtered observation table. It keeps the target column.
	Table *dataset.Table

	// Indicators are retained columns except the target, in table order.
	Indicators []string

	// Stats are missingness statistics of the table before filtering.
	Stats *Stats

	// TargetMissingRows is the number of rows dropped for a missing target.
	TargetMissingRows int

	DroppedYears      []int
	DroppedCountries  []string
	DroppedIndicators []string
}

// Filter removes rows with missing target, then rows of the sparsest
// years and countries and finally indicators with too few values.
// Indicators without any value in the remaining rows are dropped whatever
// the threshold is.
//
// Year and country missing counts come from the input table before the
// target rows are dropped. Ties among the sparsest are resolved by the
// order of first appearance.
func Filter(t *dataset.Table, target string, th Thresholds) (*Result, error) {
	if err := th.validate(); err != nil {
		return nil, err
	}
	tIdx, ok := t.ColumnIndex(target)
	if !ok {
		return nil, TargetColumnError(target)
	}

	stats := Compute(t)

	dropYears := mostMissing(stats.Years, th.YearsToDrop,
		func(y YearMissing) int { return y.Missing },
		func(y YearMissing) int { return y.Year },
	)
	dropCountries := mostMissing(stats.Countries, th.CountriesToDrop,
		func(c CountryMissing) int { return c.Missing },
		func(c CountryMissing) string { return c.Code },
	)

	yearSet := toSet(dropYears)
	countrySet := toSet(dropCountries)

	var targetMissing int
	rows := t.FilterRows(func(r int) bool {
		if dataset.IsMissing(t.Value(r, tIdx)) {
			targetMissing++
			return false
		}
		k := t.Key(r)
		if _, ok := yearSet[k.Year]; ok {
			return false
		}
		_, ok := countrySet[k.CountryCode]
		return !ok
	})

	if rows.Rows() == 0 {
		return nil, EmptyTableError(0, t.Cols())
	}

	var keep, dropped, empty []string
	n := float64(rows.Rows())
	for j, v := range rows.Columns() {
		if v == target {
			continue
		}
		var present int
		for i := range rows.Rows() {
			if !dataset.IsMissing(rows.Value(i, j)) {
				present++
			}
		}
		if present == 0 || float64(present)/n < th.NotNaNThreshold {
			dropped = append(dropped, v)
			if present == 0 {
				empty = append(empty, v)
			}
			continue
		}
		keep = append(keep, v)
	}
	if len(empty) > 0 {
		slog.Warn("Indicators without values are dropped",
			"indicators", len(empty), "codes", empty)
	}

	if len(keep) == 0 {
		return nil, EmptyTableError(rows.Rows(), 0)
	}

	res := &Result{
		Table:             rows.DropColumns(dropped...),
		Indicators:        keep,
		Stats:             stats,
		TargetMissingRows: targetMissing,
		DroppedYears:      dropYears,
		DroppedCountries:  dropCountries,
		DroppedIndicators: dropped,
	}

	slog.Info("Quality filter done",
		"rows_in", t.Rows(),
		"rows_out", res.Table.Rows(),
		"target_missing", targetMissing,
		"years_dropped", len(dropYears),
		"countries_dropped", len(dropCountries),
		"indicators_dropped", len(dropped),
	)

	return res, nil
}

func (th Thresholds) validate() error {
	f := th.NotNaNThreshold
	if math.IsNaN(f) || f < 0 || f > 1 {
		return ThresholdError(f)
	}
	if th.YearsToDrop < 0 {
		return DropCountError("years", th.YearsToDrop)
	}
	if th.CountriesToDrop < 0 {
		return DropCountError("countries", th.CountriesToDrop)
	}
	return nil
}

// mostMissing returns ids of n entries with the largest missing count.
// The sort is stable, equal counts keep their original order.
func mostMissing[T any, K comparable](
	list []T,
	n int,
	missing func(T) int,
	id func(T) K,
) []K {
	if n <= 0 {
		return nil
	}
	sorted := slices.Clone(list)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(missing(b), missing(a))
	})
	n = min(n, len(sorted))
	res := make([]K, n)
	for i := range n {
		res[i] = id(sorted[i])
	}
	return res
}

func toSet[K comparable](list []K) map[K]struct{} {
	res := make(map[K]struct{}, len(list))
	for _, v := range list {
		res[v] = struct{}{}
	}
	return res
}
