// Package forest implements a random forest of regression trees.
//
// Every tree is fitted on a bootstrap sample of rows and tries a random
// subset of features at every split. Both come from a PCG stream seeded
// with Params.Seed and the tree index, so a forest is reproducible for
// a fixed seed no matter how many trees are fitted concurrently.
package forest

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/wdimodel/pkg/metrics"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Model is a fitted random forest.
type Model struct {
	trees       []*Tree
	nFeatures   int
	importances []float64
}

// Fit grows a forest on x and y.
func Fit(
	ctx context.Context,
	x *mat.Dense,
	y []float64,
	p Params,
	opts ...Option,
) (*Model, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	rows, cols := x.Dims()
	if len(y) != rows {
		return nil, ShapeError("%d target values for %d rows", len(y), rows)
	}

	fit := newFitter(opts)
	timeStart := time.Now()

	data := make([][]float64, rows)
	for i := range rows {
		data[i] = mat.Row(nil, i, x)
	}

	res := &Model{
		trees:     make([]*Tree, p.Trees),
		nFeatures: cols,
	}
	gains := make([][]float64, p.Trees)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(fit.jobs)
	for i := range p.Trees {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(uint64(p.Seed), uint64(i)))
			samples := make([]int, rows)
			for j := range samples {
				samples[j] = rng.IntN(rows)
			}
			res.trees[i], gains[i] = growTree(data, y, samples, p, rng)
			fit.tick()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.importances = make([]float64, cols)
	for _, gain := range gains {
		total := floats.Sum(gain)
		if total <= 0 {
			continue
		}
		floats.AddScaled(res.importances, 1/total, gain)
	}
	if total := floats.Sum(res.importances); total > 0 {
		floats.Scale(1/total, res.importances)
	}

	slog.Info("Random forest fitted",
		"trees", p.Trees,
		"rows", rows,
		"features", cols,
		"duration", gnfmt.TimeString(time.Since(timeStart).Seconds()),
	)
	return res, nil
}

// Predict returns the mean prediction of all trees for every row of x.
func (m *Model) Predict(x mat.Matrix) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != m.nFeatures {
		return nil, ShapeError("%d features, model has %d", cols, m.nFeatures)
	}
	res := make([]float64, rows)
	row := make([]float64, cols)
	for i := range rows {
		mat.Row(row, i, x)
		var sum float64
		for _, t := range m.trees {
			sum += t.predict(row)
		}
		res[i] = sum / float64(len(m.trees))
	}
	return res, nil
}

// Score returns the coefficient of determination of predictions for x
// against y.
func (m *Model) Score(x mat.Matrix, y []float64) (float64, error) {
	rows, _ := x.Dims()
	if len(y) != rows {
		return 0, ShapeError("%d target values for %d rows", len(y), rows)
	}
	pred, err := m.Predict(x)
	if err != nil {
		return 0, err
	}
	return metrics.R2(y, pred), nil
}

// Importances returns the mean decrease of impurity of every feature,
// normalized to sum to 1.
func (m *Model) Importances() []float64 {
	return append([]float64(nil), m.importances...)
}

// Trees returns the number of trees.
func (m *Model) Trees() int {
	return len(m.trees)
}

// Tree returns a tree by its index.
func (m *Model) Tree(i int) *Tree {
	return m.trees[i]
}
