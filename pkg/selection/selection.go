// Package selection keeps features most linearly associated with the
// target.
//
// Every column is scored by its signed Pearson correlation with the
// target. Columns are ranked by the raw signed score, so a strong
// negative correlation ranks below a weak positive one. Columns without
// a finite correlation rank last. Equal scores keep column order.
package selection

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Score is a column with its correlation score and rank (starting
// from 1).
type Score struct {
	Name  string
	Index int
	Score float64
	Rank  int

	// finite is false when the correlation is undefined.
	finite bool
}

// Result of feature selection.
type Result struct {
	// Selected are names of kept columns in original column order.
	Selected []string

	// Indices are positions of Selected columns in the input matrix.
	Indices []int

	// Scores for every input column.
	Scores map[string]float64

	// Ranking lists all input columns from the best score down.
	Ranking []Score
}

// Select scores columns of x against y and keeps min(k, columns) of
// them. Non-finite scores, for example of a constant column, are reported
// as 0 and rank below every finite score.
func Select(x *mat.Dense, columns []string, y []float64, k int) (*Result, error) {
	if k <= 0 {
		return nil, FeaturesError(k)
	}
	rows, cols := x.Dims()
	if len(columns) != cols {
		return nil, ShapeError("%d column names for %d columns", len(columns), cols)
	}
	if len(y) != rows {
		return nil, ShapeError("%d target values for %d rows", len(y), rows)
	}

	res := &Result{
		Scores:  make(map[string]float64, cols),
		Ranking: make([]Score, cols),
	}
	col := make([]float64, rows)
	for j := range cols {
		mat.Col(col, j, x)
		r := stat.Correlation(col, y, nil)
		finite := !math.IsNaN(r) && !math.IsInf(r, 0)
		if !finite {
			r = 0
		}
		res.Scores[columns[j]] = r
		res.Ranking[j] = Score{Name: columns[j], Index: j, Score: r, finite: finite}
	}

	slices.SortStableFunc(res.Ranking, func(a, b Score) int {
		switch {
		case a.finite != b.finite:
			if a.finite {
				return -1
			}
			return 1
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	for i := range res.Ranking {
		res.Ranking[i].Rank = i + 1
	}

	k = min(k, cols)
	res.Indices = make([]int, k)
	for i := range k {
		res.Indices[i] = res.Ranking[i].Index
	}
	slices.Sort(res.Indices)
	res.Selected = make([]string, k)
	for i, j := range res.Indices {
		res.Selected[i] = columns[j]
	}

	return res, nil
}

// Columns returns a new matrix with the given columns of x.
func Columns(x mat.Matrix, idx []int) *mat.Dense {
	rows, _ := x.Dims()
	res := mat.NewDense(rows, len(idx), nil)
	for i := range rows {
		for k, j := range idx {
			res.Set(i, k, x.At(i, j))
		}
	}
	return res
}
