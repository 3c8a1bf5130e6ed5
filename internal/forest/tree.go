package forest

import (
	"math/rand"
	"sort"
)

// Node is one decision or leaf node. Leaves have Left == -1 and carry the
// fraction of positive training samples that reached them.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Prob      float64 `json:"p"`
}

// Tree is a binary CART tree stored as a flat node slice; Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Proba walks x down the tree and returns the leaf's positive fraction.
func (t *Tree) Proba(x []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.Left < 0 {
			return n.Prob
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

type builder struct {
	X       [][]float64
	y       []bool
	params  Params
	rng     *rand.Rand
	tree    *Tree
	nFeat   int
	scratch []int
}

func buildTree(X [][]float64, y []bool, idx []int, p Params, rng *rand.Rand) Tree {
	t := &Tree{}
	b := &builder{X: X, y: y, params: p, rng: rng, tree: t, nFeat: len(X[0])}
	b.grow(idx, 0)
	return *t
}

func (b *builder) grow(idx []int, depth int) int {
	pos := 0
	for _, i := range idx {
		if b.y[i] {
			pos++
		}
	}
	n := len(idx)

	self := len(b.tree.Nodes)
	b.tree.Nodes = append(b.tree.Nodes, Node{Feature: -1, Left: -1, Right: -1, Prob: float64(pos) / float64(n)})

	if depth >= b.params.MaxDepth || n < b.params.MinSamplesSplit || pos == 0 || pos == n {
		return self
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if b.X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.tree.Nodes[self].Feature = feature
	b.tree.Nodes[self].Threshold = threshold
	b.tree.Nodes[self].Left = l
	b.tree.Nodes[self].Right = r
	return self
}

// bestSplit draws a random feature order and searches the first MaxFeatures
// of them. If none of those can separate the samples it keeps going through
// the remaining features.
func (b *builder) bestSplit(idx []int) (feature int, threshold float64, ok bool) {
	order := b.rng.Perm(b.nFeat)
	mtry := b.params.maxFeatures(b.nFeat)

	best := 2.0
	for k, f := range order {
		if k >= mtry && ok {
			break
		}
		thr, score, found := b.splitOn(idx, f)
		if found && score < best {
			best, feature, threshold, ok = score, f, thr, true
		}
	}
	return feature, threshold, ok
}

// splitOn returns the threshold on feature f with the lowest weighted Gini
// impurity. Thresholds sit halfway between consecutive distinct values.
func (b *builder) splitOn(idx []int, f int) (threshold, score float64, found bool) {
	b.scratch = append(b.scratch[:0], idx...)
	sorted := b.scratch
	sort.Slice(sorted, func(i, j int) bool { return b.X[sorted[i]][f] < b.X[sorted[j]][f] })

	n := len(sorted)
	totalPos := 0
	for _, i := range sorted {
		if b.y[i] {
			totalPos++
		}
	}

	score = 2.0
	leftPos := 0
	for k := 0; k < n-1; k++ {
		if b.y[sorted[k]] {
			leftPos++
		}
		lo, hi := b.X[sorted[k]][f], b.X[sorted[k+1]][f]
		if lo == hi {
			continue
		}

		nl := float64(k + 1)
		nr := float64(n - k - 1)
		pl := float64(leftPos) / nl
		pr := float64(totalPos-leftPos) / nr
		s := (nl*gini(pl) + nr*gini(pr)) / float64(n)

		if s < score {
			score = s
			threshold = lo + (hi-lo)/2
			if threshold >= hi {
				threshold = lo
			}
			found = true
		}
	}
	return threshold, score, found
}

func gini(p float64) float64 {
	return 2 * p * (1 - p)
}
