package split_test

import (
	"slices"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/wdimodel/pkg/errcode"
	"github.com/gnames/wdimodel/pkg/split"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainTest(t *testing.T) {
	tests := []struct {
		msg   string
		n     int
		ratio float64
		test  int
	}{
		{"quarter", 100, 0.25, 25},
		{"rounds up", 10, 0.25, 3},
		{"small", 2, 0.1, 1},
	}

	for _, v := range tests {
		res, err := split.TrainTest(v.n, v.ratio, 200)
		require.NoError(t, err, v.msg)
		assert.Len(t, res.Test, v.test, v.msg)
		assert.Len(t, res.Train, v.n-v.test, v.msg)

		all := slices.Concat(res.Train, res.Test)
		slices.Sort(all)
		for i, idx := range all {
			assert.Equal(t, i, idx, v.msg)
		}
	}
}

func TestTrainTestSeed(t *testing.T) {
	a, err := split.TrainTest(50, 0.25, 200)
	require.NoError(t, err)
	b, err := split.TrainTest(50, 0.25, 200)
	require.NoError(t, err)
	c, err := split.TrainTest(50, 0.25, 201)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a.Test, c.Test)
}

func TestTrainTestErrors(t *testing.T) {
	tests := []struct {
		msg   string
		n     int
		ratio float64
		code  gn.ErrorCode
	}{
		{"zero ratio", 10, 0, errcode.ConfigTestRatioError},
		{"ratio one", 10, 1, errcode.ConfigTestRatioError},
		{"no rows", 0, 0.25, errcode.DataEmptySplitError},
		{"one row", 1, 0.25, errcode.DataEmptySplitError},
	}

	for _, v := range tests {
		_, err := split.TrainTest(v.n, v.ratio, 0)
		require.Error(t, err, v.msg)
		assert.Equal(t, v.code, err.(*gn.Error).Code, v.msg)
	}
}
