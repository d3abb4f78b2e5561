// Package impute fills missing values of a matrix with the mean of the
// k nearest rows that have the value.
//
// Distance between two rows is the nan-aware Euclidean distance over
// coordinates present in both rows, scaled by the share of such
// coordinates:
//
//	d(a, b) = sqrt(cols / present × Σ (a_i - b_i)²)
//
// Distances are computed on the input matrix, imputed values never feed
// back into other imputations. Donors with equal distance are taken in
// row order. A donor without any shared coordinate has no distance and
// is not used. If a missing cell has no usable donor, the mean of the
// observed values of its column is used instead.
//
// The algorithm is O(rows² × cols). Rows are handled concurrently, every
// worker writes only into its own output row, so the result does not
// depend on the number of workers.
package impute

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Imputer is a k-nearest-neighbors imputer.
type Imputer struct {
	k     int
	jobs  int
	names []string
	tick  func()
}

// Option configures an Imputer.
type Option func(*Imputer)

// OptJobs sets the number of concurrent workers.
func OptJobs(n int) Option {
	return func(im *Imputer) {
		if n > 0 {
			im.jobs = n
		}
	}
}

// OptNames sets column names used in errors and logs.
func OptNames(names []string) Option {
	return func(im *Imputer) {
		im.names = names
	}
}

// OptTick sets a function called once for every processed row. It is
// called from several goroutines.
func OptTick(fn func()) Option {
	return func(im *Imputer) {
		im.tick = fn
	}
}

// Summary describes what the imputer did.
type Summary struct {
	// Imputed is the number of filled cells.
	Imputed int

	// Fallback is the number of cells filled with the column mean because
	// no donor shared a coordinate with the row.
	Fallback int

	// FallbackColumns are indices of columns with at least one fallback.
	FallbackColumns []int
}

// New creates an Imputer that averages k neighbors.
func New(k int, opts ...Option) *Imputer {
	res := &Imputer{
		k:    k,
		jobs: runtime.NumCPU(),
		tick: func() {},
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Impute returns a dense copy of x with missing (NaN) values filled.
func (im *Imputer) Impute(
	ctx context.Context,
	x *mat.Dense,
) (*mat.Dense, Summary, error) {
	var sum Summary
	if im.k <= 0 {
		return nil, sum, NeighborsError(im.k)
	}

	rows, cols := x.Dims()
	res := mat.DenseCopyOf(x)

	means := make([]float64, cols)
	var missingRows []int
	for j := range cols {
		col := mat.Col(nil, j, x)
		var obs []float64
		for _, v := range col {
			if !math.IsNaN(v) {
				obs = append(obs, v)
			}
		}
		if len(obs) == 0 {
			return nil, sum, EmptyColumnError(im.name(j))
		}
		means[j] = stat.Mean(obs, nil)
	}
	for i := range rows {
		if slices.ContainsFunc(x.RawRowView(i), math.IsNaN) {
			missingRows = append(missingRows, i)
		}
	}

	imputed := make([]int, rows)
	fallback := make([][]int, rows)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(im.jobs)
	for _, r := range missingRows {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			imputed[r], fallback[r] = im.imputeRow(x, res, r, means)
			im.tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, sum, err
	}
	for range rows - len(missingRows) {
		im.tick()
	}

	fbCols := make(map[int]struct{})
	for i := range rows {
		sum.Imputed += imputed[i]
		sum.Fallback += len(fallback[i])
		for _, j := range fallback[i] {
			fbCols[j] = struct{}{}
		}
	}
	for j := range cols {
		if _, ok := fbCols[j]; ok {
			sum.FallbackColumns = append(sum.FallbackColumns, j)
		}
	}

	if sum.Fallback > 0 {
		names := make([]string, len(sum.FallbackColumns))
		for i, j := range sum.FallbackColumns {
			names[i] = im.name(j)
		}
		slog.Warn("Some cells had no donors, used column means",
			"cells", sum.Fallback,
			"columns", names,
			"error", NoDonorsWarning(sum.Fallback, names),
		)
	}

	return res, sum, nil
}

type neighbor struct {
	row  int
	dist float64
}

// imputeRow fills missing cells of row r in res. It returns the number
// of filled cells and columns where the fallback mean was used.
func (im *Imputer) imputeRow(
	x, res *mat.Dense,
	r int,
	means []float64,
) (int, []int) {
	rows, cols := x.Dims()
	row := x.RawRowView(r)

	neighbors := make([]neighbor, 0, rows-1)
	for i := range rows {
		if i == r {
			continue
		}
		d, ok := distance(row, x.RawRowView(i))
		if !ok {
			continue
		}
		neighbors = append(neighbors, neighbor{row: i, dist: d})
	}
	// stable sort keeps row order for equal distances
	slices.SortStableFunc(neighbors, func(a, b neighbor) int {
		switch {
		case a.dist < b.dist:
			return -1
		case a.dist > b.dist:
			return 1
		default:
			return 0
		}
	})

	var count int
	var fallback []int
	donors := make([]float64, 0, im.k)
	for j := range cols {
		if !math.IsNaN(row[j]) {
			continue
		}
		count++
		donors = donors[:0]
		for _, n := range neighbors {
			v := x.At(n.row, j)
			if math.IsNaN(v) {
				continue
			}
			donors = append(donors, v)
			if len(donors) == im.k {
				break
			}
		}
		if len(donors) == 0 {
			res.Set(r, j, means[j])
			fallback = append(fallback, j)
			continue
		}
		res.Set(r, j, stat.Mean(donors, nil))
	}
	return count, fallback
}

// distance returns the nan-aware Euclidean distance between a and b.
// It is false when a and b share no present coordinate.
func distance(a, b []float64) (float64, bool) {
	var sum float64
	var present int
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		d := a[i] - b[i]
		sum += d * d
		present++
	}
	if present == 0 {
		return 0, false
	}
	return math.Sqrt(float64(len(a)) / float64(present) * sum), true
}

func (im *Imputer) name(j int) string {
	if j < len(im.names) {
		return im.names[j]
	}
	return "#" + strconv.Itoa(j)
}
