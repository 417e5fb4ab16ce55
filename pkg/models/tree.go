/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"gonum.org/v1/gonum/mat"
)

const (
	leaf = -1

	// minGain is the smallest squared error reduction accepted for a split.
	minGain = 1e-12
)

// Node is a regression tree node. Leaves have Left and Right set to -1.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a binary regression tree, the root is the first node.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// PredictRow walks the tree, values lower or equal to a threshold go left.
func (t *Tree) PredictRow(row []float64) float64 {
	i := 0
	for {
		node := &t.Nodes[i]
		if node.Left == leaf {
			return node.Value
		}

		if row[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Depth returns the number of edges on the longest root to leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		node := t.Nodes[i]
		if node.Left == leaf {
			return 0
		}

		l, r := walk(node.Left), walk(node.Right)
		if l > r {
			return l + 1
		}

		return r + 1
	}

	return walk(0)
}

func predictTree(t *Tree, x *mat.Dense) []float64 {
	rows, _ := x.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = t.PredictRow(x.RawRowView(i))
	}

	return out
}

// treeBuilder grows a least squares tree on histogram-binned features.
type treeBuilder struct {
	codes          [][]uint8
	thresholds     [][]float64
	target         []float64
	maxDepth       int
	minSamplesLeaf int
	nodes          []Node
}

func buildTree(mapper *binMapper, codes [][]uint8, target []float64, rows []int, maxDepth, minSamplesLeaf int) *Tree {
	if minSamplesLeaf < 1 {
		minSamplesLeaf = 1
	}

	b := &treeBuilder{
		codes:          codes,
		thresholds:     mapper.thresholds,
		target:         target,
		maxDepth:       maxDepth,
		minSamplesLeaf: minSamplesLeaf,
	}
	b.grow(rows, 0)
	return &Tree{Nodes: b.nodes}
}

func (b *treeBuilder) grow(rows []int, depth int) int {
	var sum float64
	for _, r := range rows {
		sum += b.target[r]
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Left: leaf, Right: leaf, Value: sum / float64(len(rows))})
	if (b.maxDepth > 0 && depth >= b.maxDepth) || len(rows) < 2*b.minSamplesLeaf {
		return idx
	}

	feature, bin, ok := b.bestSplit(rows, sum)
	if !ok {
		return idx
	}

	var left, right []int
	for _, r := range rows {
		if int(b.codes[feature][r]) <= bin {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[idx].Feature = feature
	b.nodes[idx].Threshold = b.thresholds[feature][bin]
	b.nodes[idx].Left = l
	b.nodes[idx].Right = r
	return idx
}

// bestSplit scans the histogram of every feature for the largest reduction of squared error.
func (b *treeBuilder) bestSplit(rows []int, sum float64) (int, int, bool) {
	n := len(rows)
	parent := sum * sum / float64(n)

	var (
		bestGain    = minGain
		bestFeature = -1
		bestBin     = -1
	)
	for f, thresholds := range b.thresholds {
		bins := len(thresholds) + 1
		if bins < 2 {
			continue
		}

		counts := make([]int, bins)
		sums := make([]float64, bins)
		for _, r := range rows {
			c := b.codes[f][r]
			counts[c]++
			sums[c] += b.target[r]
		}

		var (
			leftCount int
			leftSum   float64
		)
		for bin := 0; bin < bins-1; bin++ {
			leftCount += counts[bin]
			leftSum += sums[bin]
			rightCount := n - leftCount
			if leftCount < b.minSamplesLeaf || counts[bin] == 0 {
				continue
			}

			if rightCount < b.minSamplesLeaf {
				break
			}

			rightSum := sum - leftSum
			gain := leftSum*leftSum/float64(leftCount) + rightSum*rightSum/float64(rightCount) - parent
			if gain > bestGain {
				bestGain, bestFeature, bestBin = gain, f, bin
			}
		}
	}

	return bestFeature, bestBin, bestFeature >= 0
}
