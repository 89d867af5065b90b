package forest

import (
	"math"
	"math/rand"
	"sort"
)

// Node is one node of a decision tree. Leaves carry the predicted class;
// internal nodes route on Feature <= Threshold. The structure is exported so
// a trained model serializes to JSON and reloads bit-exactly.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Class     int     `json:"class,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

type treeBuilder struct {
	x           [][]float64
	y           []int
	numFeatures int
	maxDepth    int
	minLeaf     int
	mtry        int
	rng         *rand.Rand

	// impurity decrease accumulated per feature, weighted by node size
	importances []float64
}

func (b *treeBuilder) build(indices []int, depth int) *Node {
	if len(indices) == 0 {
		return &Node{Leaf: true, Class: 0}
	}

	ones := countOnes(b.y, indices)
	if ones == 0 || ones == len(indices) ||
		(b.maxDepth > 0 && depth >= b.maxDepth) ||
		len(indices) < 2*b.minLeaf {
		return &Node{Leaf: true, Class: majorityClass(ones, len(indices))}
	}

	feature, threshold, gain, ok := b.bestSplit(indices)
	if !ok {
		return &Node{Leaf: true, Class: majorityClass(ones, len(indices))}
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minLeaf || len(right) < b.minLeaf {
		return &Node{Leaf: true, Class: majorityClass(ones, len(indices))}
	}

	b.importances[feature] += gain * float64(len(indices))

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// bestSplit evaluates a random subset of features and returns the split with
// the largest Gini impurity decrease.
func (b *treeBuilder) bestSplit(indices []int) (feature int, threshold float64, gain float64, ok bool) {
	parent := giniOf(b.y, indices)

	candidates := b.rng.Perm(b.numFeatures)[:b.mtry]
	sort.Ints(candidates) // stable evaluation order regardless of Perm internals

	bestGain := 0.0
	for _, f := range candidates {
		values := make([]float64, 0, len(indices))
		for _, i := range indices {
			values = append(values, b.x[i][f])
		}
		sort.Float64s(values)

		for vi := 1; vi < len(values); vi++ {
			if values[vi] == values[vi-1] {
				continue
			}
			thr := (values[vi] + values[vi-1]) / 2

			var nL, onesL, nR, onesR int
			for _, i := range indices {
				if b.x[i][f] <= thr {
					nL++
					onesL += b.y[i]
				} else {
					nR++
					onesR += b.y[i]
				}
			}
			if nL == 0 || nR == 0 {
				continue
			}

			total := float64(nL + nR)
			weighted := float64(nL)/total*giniCounts(onesL, nL) +
				float64(nR)/total*giniCounts(onesR, nR)
			if g := parent - weighted; g > bestGain {
				bestGain = g
				feature = f
				threshold = thr
				ok = true
			}
		}
	}

	return feature, threshold, bestGain, ok
}

func (n *Node) predict(features []float64) int {
	for !n.Leaf {
		if features[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class
}

func countOnes(y []int, indices []int) int {
	ones := 0
	for _, i := range indices {
		ones += y[i]
	}
	return ones
}

func majorityClass(ones, total int) int {
	if 2*ones > total {
		return 1
	}
	return 0
}

func giniOf(y []int, indices []int) float64 {
	return giniCounts(countOnes(y, indices), len(indices))
}

func giniCounts(ones, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(ones) / float64(total)
	return 1 - p*p - (1-p)*(1-p)
}

func defaultMtry(numFeatures int) int {
	m := int(math.Sqrt(float64(numFeatures)))
	if m < 1 {
		m = 1
	}
	if m > numFeatures {
		m = numFeatures
	}
	return m
}
