package forest

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
)

const leaf = -1

// node of a regression tree. Leaves have Feature == leaf.
type node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
	Samples   int
	Impurity  float64
}

// Tree is a binary regression tree. Samples with a feature value not
// greater than the threshold go left.
type Tree struct {
	nodes     []node
	nFeatures int
}

type grower struct {
	x       [][]float64
	y       []float64
	p       Params
	rng     *rand.Rand
	mtry    int
	tree    *Tree
	gain    []float64
	order   []int
	feature []int
}

// growTree fits a tree on rows of x given by samples, repeated rows are
// bootstrap duplicates. It returns the tree and impurity decrease of every
// feature.
func growTree(
	x [][]float64,
	y []float64,
	samples []int,
	p Params,
	rng *rand.Rand,
) (*Tree, []float64) {
	nf := len(x[0])
	g := &grower{
		x:       x,
		y:       y,
		p:       p,
		rng:     rng,
		mtry:    p.featuresPerSplit(nf),
		tree:    &Tree{nFeatures: nf},
		gain:    make([]float64, nf),
		order:   make([]int, len(samples)),
		feature: make([]int, nf),
	}
	for i := range g.feature {
		g.feature[i] = i
	}
	g.grow(samples, 0)
	return g.tree, g.gain
}

type candidate struct {
	feature   int
	threshold float64
	pos       int
	score     float64
}

func (g *grower) grow(samples []int, depth int) int {
	n := len(samples)
	var sum, sumSq float64
	for _, s := range samples {
		sum += g.y[s]
		sumSq += g.y[s] * g.y[s]
	}
	mean := sum / float64(n)
	impurity := max(0, sumSq/float64(n)-mean*mean)

	id := len(g.tree.nodes)
	g.tree.nodes = append(g.tree.nodes, node{
		Feature:  leaf,
		Value:    mean,
		Samples:  n,
		Impurity: impurity,
	})

	if n < g.p.MinSamplesSplit ||
		n < 2*g.p.MinSamplesLeaf ||
		(g.p.MaxDepth > 0 && depth >= g.p.MaxDepth) ||
		impurity <= 1e-12 {
		return id
	}

	best, ok := g.bestSplit(samples, sum)
	if !ok {
		return id
	}

	// samples are reordered by the best feature, left part goes first
	sortByFeature(samples, g.x, best.feature)
	left := slices.Clone(samples[:best.pos])
	right := slices.Clone(samples[best.pos:])

	l := g.grow(left, depth+1)
	r := g.grow(right, depth+1)

	nd := &g.tree.nodes[id]
	nd.Feature = best.feature
	nd.Threshold = best.threshold
	nd.Left = l
	nd.Right = r

	lImp := g.tree.nodes[l].Impurity * float64(len(left))
	rImp := g.tree.nodes[r].Impurity * float64(len(right))
	g.gain[best.feature] += impurity*float64(n) - lImp - rImp
	return id
}

// bestSplit tries a random subset of features and finds the split with
// the smallest sum of squared errors. Among equal splits the first found
// wins.
func (g *grower) bestSplit(samples []int, total float64) (candidate, bool) {
	n := len(samples)
	minLeaf := g.p.MinSamplesLeaf
	g.rng.Shuffle(len(g.feature), func(i, j int) {
		g.feature[i], g.feature[j] = g.feature[j], g.feature[i]
	})

	order := g.order[:n]
	best := candidate{score: math.Inf(-1)}
	var found bool
	for _, f := range g.feature[:g.mtry] {
		copy(order, samples)
		sortByFeature(order, g.x, f)

		// maximizing sumL²/nL + sumR²/nR minimizes the total SSE
		var sumL float64
		for i := 0; i < n-1; i++ {
			sumL += g.y[order[i]]
			nl := i + 1
			if nl < minLeaf || n-nl < minLeaf {
				continue
			}
			lo, hi := g.x[order[i]][f], g.x[order[i+1]][f]
			if lo >= hi {
				continue
			}
			sumR := total - sumL
			score := sumL*sumL/float64(nl) + sumR*sumR/float64(n-nl)
			if score > best.score {
				thr := lo + (hi-lo)/2
				if thr >= hi {
					thr = lo
				}
				best = candidate{feature: f, threshold: thr, pos: nl, score: score}
				found = true
			}
		}
	}
	return best, found
}

// sortByFeature orders samples by the value of feature f, equal values
// by sample index.
func sortByFeature(samples []int, x [][]float64, f int) {
	slices.SortFunc(samples, func(a, b int) int {
		if c := cmp.Compare(x[a][f], x[b][f]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

func (t *Tree) predict(row []float64) float64 {
	i := 0
	for {
		nd := &t.nodes[i]
		if nd.Feature == leaf {
			return nd.Value
		}
		if row[nd.Feature] <= nd.Threshold {
			i = nd.Left
		} else {
			i = nd.Right
		}
	}
}

// Nodes returns the number of nodes of the tree.
func (t *Tree) Nodes() int {
	return len(t.nodes)
}

// Depth returns the depth of the tree, a single leaf has depth 0.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		nd := t.nodes[i]
		if nd.Feature == leaf {
			return 0
		}
		return 1 + max(walk(nd.Left), walk(nd.Right))
	}
	return walk(0)
}

// Format renders the tree as indented text down to maxDepth levels,
// 0 means the whole tree. Features are named by names, or by their index
// when names are missing.
func (t *Tree) Format(names []string, maxDepth int) string {
	var sb strings.Builder
	name := func(f int) string {
		if f < len(names) {
			return names[f]
		}
		return fmt.Sprintf("feature_%d", f)
	}

	var walk func(i, depth int)
	walk = func(i, depth int) {
		nd := t.nodes[i]
		indent := strings.Repeat("|   ", depth)
		if nd.Feature == leaf {
			fmt.Fprintf(&sb, "%s|--- value: %.4g (samples: %d, mse: %.4g)\n",
				indent, nd.Value, nd.Samples, nd.Impurity)
			return
		}
		if maxDepth > 0 && depth >= maxDepth {
			fmt.Fprintf(&sb, "%s|--- truncated branch (samples: %d, value: %.4g)\n",
				indent, nd.Samples, nd.Value)
			return
		}
		fmt.Fprintf(&sb, "%s|--- %s <= %.4g\n", indent, name(nd.Feature), nd.Threshold)
		walk(nd.Left, depth+1)
		fmt.Fprintf(&sb, "%s|--- %s >  %.4g\n", indent, name(nd.Feature), nd.Threshold)
		walk(nd.Right, depth+1)
	}
	walk(0, 0)
	return sb.String()
}
