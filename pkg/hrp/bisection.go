package hrp

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// varianceFloor replaces non-positive diagonal entries during
// inverse-variance weighting so a degenerate asset cannot abort the whole
// allocation. Every substitution is surfaced as a warning on the Result.
const varianceFloor = 1e-12

// span is a contiguous range [lo, hi) of positions in the quasi-diagonal
// order.
type span struct {
	lo, hi int
}

func (s span) len() int { return s.hi - s.lo }

type pairResult struct {
	alpha    float64
	warnings []string
}

// recursiveBisection walks the ordered asset list top-down with an explicit
// worklist. Each level splits every remaining range into halves, computes
// each half's cluster variance, and multiplies the half's weights by the
// allocation factor. Returned weights are indexed by original asset index
// and are strictly positive; they are normalized by the caller.
func recursiveBisection(cov [][]float64, order []int, parallel bool) ([]float64, []string, error) {
	weights := make([]float64, len(cov))
	for i := range weights {
		weights[i] = 1.0
	}

	var warnings []string
	worklist := []span{{0, len(order)}}

	for len(worklist) > 0 {
		type pair struct {
			left, right span
		}
		var pairs []pair
		var next []span

		for _, s := range worklist {
			if s.len() <= 1 {
				continue
			}
			// Left half gets the floor share on odd lengths.
			mid := s.lo + s.len()/2
			left := span{s.lo, mid}
			right := span{mid, s.hi}
			pairs = append(pairs, pair{left, right})
			if left.len() > 1 {
				next = append(next, left)
			}
			if right.len() > 1 {
				next = append(next, right)
			}
		}

		if len(pairs) == 0 {
			break
		}

		results := make([]pairResult, len(pairs))
		if parallel && len(pairs) > 1 {
			var g errgroup.Group
			g.SetLimit(runtime.GOMAXPROCS(0))
			for k := range pairs {
				k := k
				g.Go(func() error {
					res, err := evaluatePair(cov, order, pairs[k].left, pairs[k].right)
					if err != nil {
						return err
					}
					results[k] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, nil, err
			}
		} else {
			for k := range pairs {
				res, err := evaluatePair(cov, order, pairs[k].left, pairs[k].right)
				if err != nil {
					return nil, nil, err
				}
				results[k] = res
			}
		}

		// Apply factors sequentially so parallel and sequential runs are
		// bit-identical.
		for k, p := range pairs {
			alpha := results[k].alpha
			warnings = append(warnings, results[k].warnings...)
			for pos := p.left.lo; pos < p.left.hi; pos++ {
				weights[order[pos]] *= alpha
			}
			for pos := p.right.lo; pos < p.right.hi; pos++ {
				weights[order[pos]] *= 1.0 - alpha
			}
		}

		worklist = next
	}

	return weights, warnings, nil
}

// evaluatePair computes the allocation factor for one parent range: the
// fraction of the parent's weight kept by the left half.
func evaluatePair(cov [][]float64, order []int, left, right span) (pairResult, error) {
	vLeft, wLeft, err := clusterVariance(cov, order, left)
	if err != nil {
		return pairResult{}, err
	}
	vRight, wRight, err := clusterVariance(cov, order, right)
	if err != nil {
		return pairResult{}, err
	}

	alpha := 0.5
	if vLeft+vRight > 0 {
		alpha = 1.0 - vLeft/(vLeft+vRight)
	}
	alpha = math.Max(0.0, math.Min(1.0, alpha))

	warnings := append(wLeft, wRight...)
	return pairResult{alpha: alpha, warnings: warnings}, nil
}

// clusterVariance computes the variance of the inverse-variance-weighted
// portfolio restricted to one range of the ordered list: w^T Σ w with
// w_i ∝ 1/Σ_ii normalized over the range.
func clusterVariance(cov [][]float64, order []int, s span) (float64, []string, error) {
	if s.len() == 1 {
		i := order[s.lo]
		v := cov[i][i]
		if v < varianceFloor {
			warning := fmt.Sprintf("asset %d has non-positive variance %v, floored to %v", i, v, varianceFloor)
			return varianceFloor, []string{warning}, nil
		}
		return v, nil, nil
	}

	var warnings []string
	inv := make([]float64, s.len())
	sumInv := 0.0
	for k := 0; k < s.len(); k++ {
		i := order[s.lo+k]
		v := cov[i][i]
		if v < varianceFloor {
			warnings = append(warnings, fmt.Sprintf("asset %d has non-positive variance %v, floored to %v", i, v, varianceFloor))
			v = varianceFloor
		}
		inv[k] = 1.0 / v
		sumInv += inv[k]
	}
	for k := range inv {
		inv[k] /= sumInv
	}

	variance := 0.0
	for a := 0; a < s.len(); a++ {
		i := order[s.lo+a]
		for b := 0; b < s.len(); b++ {
			j := order[s.lo+b]
			variance += inv[a] * cov[i][j] * inv[b]
		}
	}

	if math.IsNaN(variance) || math.IsInf(variance, 0) {
		return 0, warnings, fmt.Errorf("%w: range [%d,%d)", ErrSingularCluster, s.lo, s.hi)
	}

	return math.Max(variance, 0.0), warnings, nil
}
