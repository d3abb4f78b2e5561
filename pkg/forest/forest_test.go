package forest_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/gnames/wdimodel/pkg/forest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// signal returns rows where y depends on feature 0 and slightly on 2.
func signal(rows int, seed uint64) (*mat.Dense, []float64) {
	rng := rand.New(rand.NewPCG(seed, 0))
	x := mat.NewDense(rows, 4, nil)
	y := make([]float64, rows)
	for i := range rows {
		for j := range 4 {
			x.Set(i, j, rng.Float64()*10)
		}
		y[i] = 3*x.At(i, 0) + 0.5*x.At(i, 2) + 0.1*rng.NormFloat64()
	}
	return x, y
}

func smallParams() forest.Params {
	p := forest.DefaultParams()
	p.Trees = 20
	p.Seed = 42
	return p
}

func TestFitQuality(t *testing.T) {
	x, y := signal(200, 1)
	m, err := forest.Fit(context.Background(), x, y, smallParams())
	require.NoError(t, err)
	assert.Equal(t, 20, m.Trees())

	score, err := m.Score(x, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.95)

	xt, yt := signal(100, 2)
	score, err = m.Score(xt, yt)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8)

	imp := m.Importances()
	require.Len(t, imp, 4)
	assert.InDelta(t, 1.0, floats.Sum(imp), 1e-9)
	assert.Equal(t, 0, floats.MaxIdx(imp))
}

func TestFitDeterminism(t *testing.T) {
	x, y := signal(80, 3)
	p := smallParams()

	m1, err := forest.Fit(context.Background(), x, y, p, forest.OptJobs(1))
	require.NoError(t, err)
	m2, err := forest.Fit(context.Background(), x, y, p, forest.OptJobs(8))
	require.NoError(t, err)

	pred1, err := m1.Predict(x)
	require.NoError(t, err)
	pred2, err := m2.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, pred1, pred2)
	assert.Equal(t, m1.Tree(3).Format(nil, 0), m2.Tree(3).Format(nil, 0))

	p.Seed = 43
	m3, err := forest.Fit(context.Background(), x, y, p)
	require.NoError(t, err)
	pred3, err := m3.Predict(x)
	require.NoError(t, err)
	assert.NotEqual(t, pred1, pred3)
}

func TestFitMaxFeatures(t *testing.T) {
	x, y := signal(60, 4)
	p := smallParams()
	p.MaxFeatures = 0.25
	m, err := forest.Fit(context.Background(), x, y, p)
	require.NoError(t, err)

	score, err := m.Score(x, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.5)
}

func TestFitErrors(t *testing.T) {
	x, y := signal(10, 5)

	tests := []struct {
		msg    string
		update func(*forest.Params)
	}{
		{"trees", func(p *forest.Params) { p.Trees = 0 }},
		{"depth", func(p *forest.Params) { p.MaxDepth = -1 }},
		{"split", func(p *forest.Params) { p.MinSamplesSplit = 1 }},
		{"leaf", func(p *forest.Params) { p.MinSamplesLeaf = 0 }},
		{"features", func(p *forest.Params) { p.MaxFeatures = 0 }},
	}

	for _, v := range tests {
		p := forest.DefaultParams()
		v.update(&p)
		_, err := forest.Fit(context.Background(), x, y, p)
		require.Error(t, err, v.msg)
		assert.Equal(t, errcode.ConfigForestError, err.(*gn.Error).Code, v.msg)
	}

	_, err := forest.Fit(context.Background(), x, y[:5], forest.DefaultParams())
	require.Error(t, err)
	assert.Equal(t, errcode.InputShapeError, err.(*gn.Error).Code)

	m, err := forest.Fit(context.Background(), x, y, smallParams())
	require.NoError(t, err)
	_, err = m.Predict(mat.NewDense(2, 3, nil))
	require.Error(t, err)
}

func TestFitCancel(t *testing.T) {
	x, y := signal(10, 6)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := forest.Fit(ctx, x, y, smallParams())
	assert.ErrorIs(t, err, context.Canceled)
}
