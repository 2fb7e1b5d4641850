package hrp

import (
	"fmt"
	"math"
)

// treeNode is one node of the merge tree. Leaves carry the original asset
// index as id; internal nodes carry ids n, n+1, ... in merge order.
type treeNode struct {
	id      int
	left    *treeNode
	right   *treeNode
	minLeaf int
	size    int
}

// buildMergeTree runs agglomerative clustering over the distance matrix and
// returns the root of the binary merge tree plus the N-1 dendrogram rows.
//
// Inter-cluster distances are maintained with the Lance-Williams update for
// the chosen linkage. Equidistant pairs are broken deterministically: the
// pair whose constituent minimum leaf indices are lexicographically smallest
// merges first, and within a merge the child with the smaller minimum leaf
// becomes the left child.
func buildMergeTree(dist [][]float64, linkage Linkage) (*treeNode, []Merge, error) {
	n := len(dist)
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: need at least 2 assets to cluster", ErrInvalidInput)
	}

	active := make([]*treeNode, n)
	for i := 0; i < n; i++ {
		active[i] = &treeNode{id: i, minLeaf: i, size: 1}
	}

	// Working copy of inter-cluster distances, parallel to active.
	work := make([][]float64, n)
	for i := 0; i < n; i++ {
		work[i] = make([]float64, n)
		copy(work[i], dist[i])
	}

	merges := make([]Merge, 0, n-1)
	nextID := n

	for len(active) > 1 {
		bestI, bestJ := 0, 1
		bestD := work[0][1]
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				d := work[i][j]
				if d < bestD || (d == bestD && pairLess(active[i], active[j], active[bestI], active[bestJ])) {
					bestD = d
					bestI, bestJ = i, j
				}
			}
		}

		left, right := active[bestI], active[bestJ]
		if right.minLeaf < left.minLeaf {
			left, right = right, left
		}

		merged := &treeNode{
			id:      nextID,
			left:    left,
			right:   right,
			minLeaf: left.minLeaf,
			size:    left.size + right.size,
		}
		nextID++

		merges = append(merges, Merge{
			Left:     left.id,
			Right:    right.id,
			Distance: bestD,
			Size:     merged.size,
		})

		// Distances from the merged cluster to every surviving cluster.
		mergedRow := make([]float64, 0, len(active)-2)
		survivors := make([]*treeNode, 0, len(active)-1)
		survivorRows := make([][]float64, 0, len(active)-1)

		for k := 0; k < len(active); k++ {
			if k == bestI || k == bestJ {
				continue
			}
			d, err := lanceWilliams(linkage, work[bestI][k], work[bestJ][k], bestD,
				active[bestI].size, active[bestJ].size, active[k].size)
			if err != nil {
				return nil, nil, err
			}
			mergedRow = append(mergedRow, d)
			survivors = append(survivors, active[k])
		}

		// Rebuild the working matrix over survivors + merged.
		for k := 0; k < len(active); k++ {
			if k == bestI || k == bestJ {
				continue
			}
			row := make([]float64, 0, len(survivors)+1)
			for l := 0; l < len(active); l++ {
				if l == bestI || l == bestJ {
					continue
				}
				row = append(row, work[k][l])
			}
			survivorRows = append(survivorRows, row)
		}

		m := len(survivors)
		next := make([][]float64, m+1)
		for k := 0; k < m; k++ {
			next[k] = append(survivorRows[k], mergedRow[k])
		}
		next[m] = append(mergedRow, 0.0)

		active = append(survivors, merged)
		work = next
	}

	return active[0], merges, nil
}

// pairLess orders equidistant cluster pairs by their constituent minimum
// leaf indices, smallest pair first.
func pairLess(a1, b1, a2, b2 *treeNode) bool {
	x1, y1 := a1.minLeaf, b1.minLeaf
	if y1 < x1 {
		x1, y1 = y1, x1
	}
	x2, y2 := a2.minLeaf, b2.minLeaf
	if y2 < x2 {
		x2, y2 = y2, x2
	}
	if x1 != x2 {
		return x1 < x2
	}
	return y1 < y2
}

// lanceWilliams computes the distance between cluster k and the merger of
// clusters i and j from the pre-merge distances.
func lanceWilliams(linkage Linkage, dik, djk, dij float64, ni, nj, nk int) (float64, error) {
	switch linkage {
	case LinkageSingle:
		return math.Min(dik, djk), nil
	case LinkageComplete:
		return math.Max(dik, djk), nil
	case LinkageAverage:
		fi, fj := float64(ni), float64(nj)
		return (fi*dik + fj*djk) / (fi + fj), nil
	case LinkageWard:
		fi, fj, fk := float64(ni), float64(nj), float64(nk)
		total := fi + fj + fk
		sq := ((fi+fk)*dik*dik + (fj+fk)*djk*djk - fk*dij*dij) / total
		if sq < 0 {
			sq = 0
		}
		return math.Sqrt(sq), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedLinkage, linkage)
	}
}

// quasiDiagonalOrder lists original asset indices from a depth-first,
// left-then-right traversal of the merge tree. Any contiguous span of the
// result corresponds to a connected subtree, which is what lets recursive
// bisection split on ranges.
func quasiDiagonalOrder(node *treeNode) []int {
	if node == nil {
		return nil
	}
	if node.left == nil && node.right == nil {
		return []int{node.id}
	}
	left := quasiDiagonalOrder(node.left)
	right := quasiDiagonalOrder(node.right)
	out := make([]int, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}
