package selection_test

import (
	"maps"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/gnames/wdimodel/pkg/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSelectSize(t *testing.T) {
	x := mat.NewDense(4, 3, []float64{
		1, 4, 1,
		2, 3, 1,
		3, 2, 1,
		4, 1, 1,
	})
	y := []float64{1, 2, 3, 4}
	names := []string{"up", "down", "flat"}

	tests := []struct {
		msg      string
		k        int
		selected []string
	}{
		{"one", 1, []string{"up"}},
		{"two, column order", 2, []string{"up", "down"}},
		{"all", 3, []string{"up", "down", "flat"}},
		{"more than columns", 10, []string{"up", "down", "flat"}},
	}

	for _, v := range tests {
		res, err := selection.Select(x, names, y, v.k)
		require.NoError(t, err, v.msg)
		assert.Len(t, res.Selected, min(v.k, 3), v.msg)
		assert.Equal(t, v.selected, res.Selected, v.msg)

		keys := slices.Sorted(maps.Keys(res.Scores))
		assert.Equal(t, []string{"down", "flat", "up"}, keys, v.msg)
	}
}

func TestSelectSignedRanking(t *testing.T) {
	x := mat.NewDense(4, 3, []float64{
		1, 4, 1,
		2, 3, 1,
		3, 2, 1,
		4, 1, 1,
	})
	res, err := selection.Select(x, []string{"up", "down", "flat"},
		[]float64{1, 2, 3, 4}, 1)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Scores["up"], 1e-12)
	assert.InDelta(t, -1.0, res.Scores["down"], 1e-12)
	assert.Equal(t, 0.0, res.Scores["flat"])

	require.Len(t, res.Ranking, 3)
	assert.Equal(t, "up", res.Ranking[0].Name)
	assert.Equal(t, "down", res.Ranking[1].Name)
	assert.Equal(t, "flat", res.Ranking[2].Name, "undefined correlation last")
	assert.Equal(t, 3, res.Ranking[2].Rank)
}

func TestSelectConstantColumnLast(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		7, 4,
		7, 3,
		7, 2,
		7, 1.5,
	})
	y := []float64{1, 2, 3, 4}
	res, err := selection.Select(x, []string{"const", "neg"}, y, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"neg"}, res.Selected)
	assert.Equal(t, []int{1}, res.Indices)
	assert.Equal(t, 0.0, res.Scores["const"])
	assert.Less(t, res.Scores["neg"], -0.9)
	assert.Equal(t, "const", res.Ranking[1].Name)

	// constant target leaves every score undefined, column order wins
	res, err = selection.Select(x, []string{"const", "neg"},
		[]float64{5, 5, 5, 5}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"const"}, res.Selected)
}

func TestSelectTies(t *testing.T) {
	x := mat.NewDense(3, 3, []float64{
		1, 1, 1,
		2, 2, 2,
		3, 3, 3,
	})
	res, err := selection.Select(x, []string{"a", "b", "c"},
		[]float64{1, 2, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Selected)
	assert.Equal(t, []int{0, 1}, res.Indices)
}

func TestSelectSignal(t *testing.T) {
	var hits int
	trials := 20
	for seed := range trials {
		rng := rand.New(rand.NewPCG(uint64(seed), 7))
		rows := 100
		x := mat.NewDense(rows, 5, nil)
		y := make([]float64, rows)
		for i := range rows {
			for j := range 5 {
				x.Set(i, j, rng.NormFloat64())
			}
			y[i] = 2*x.At(i, 1) + 1.5*x.At(i, 3) + 0.5*rng.NormFloat64()
		}

		res, err := selection.Select(x, []string{"f0", "f1", "f2", "f3", "f4"}, y, 2)
		require.NoError(t, err)
		if slices.Contains(res.Selected, "f1") ||
			slices.Contains(res.Selected, "f3") {
			hits++
		}
	}
	assert.GreaterOrEqual(t, hits, 18)
}

func TestSelectErrors(t *testing.T) {
	x := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := selection.Select(x, []string{"a", "b"}, []float64{1, 2}, 0)
	require.Error(t, err)
	assert.Equal(t, errcode.ConfigFeaturesError, err.(*gn.Error).Code)

	_, err = selection.Select(x, []string{"a"}, []float64{1, 2}, 1)
	require.Error(t, err)
	assert.Equal(t, errcode.InputShapeError, err.(*gn.Error).Code)

	_, err = selection.Select(x, []string{"a", "b"}, []float64{1}, 1)
	require.Error(t, err)
	assert.Equal(t, errcode.InputShapeError, err.(*gn.Error).Code)
}

func TestColumns(t *testing.T) {
	x := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	res := selection.Columns(x, []int{2, 0})
	assert.Equal(t, []float64{3, 1, 6, 4}, res.RawMatrix().Data)
}
