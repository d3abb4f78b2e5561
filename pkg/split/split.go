// Package split divides rows into train and test sets.
package split

import (
	"math"
	"math/rand/v2"
)

// Split holds row indices of train and test sets in the order of a
// seeded permutation.
type Split struct {
	Train []int
	Test  []int
}

// TrainTest permutes n rows with the given seed and puts
// ceil(ratio × n) of them into the test set. Both sets must be
// non-empty.
func TrainTest(n int, ratio float64, seed int) (*Split, error) {
	if math.IsNaN(ratio) || ratio <= 0 || ratio >= 1 {
		return nil, TestRatioError(ratio)
	}
	nTest := int(math.Ceil(ratio * float64(n)))
	if n == 0 || nTest >= n {
		return nil, EmptySplitError(n, nTest)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	perm := rng.Perm(n)
	return &Split{
		Test:  perm[:nTest],
		Train: perm[nTest:],
	}, nil
}
