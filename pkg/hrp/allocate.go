// Package hrp implements Hierarchical Risk Parity portfolio allocation:
// correlation-derived distances, agglomerative clustering into a merge tree,
// quasi-diagonal leaf ordering, and recursive bisection of the ordered asset
// list with weight split inversely proportional to cluster variance.
//
// The package is pure computation: no I/O, no shared state between calls.
// Each Allocate call derives its own matrices and returns an immutable
// Result.
package hrp

import (
	"fmt"
	"math"
)

// Linkage selects the inter-cluster distance rule used during clustering.
type Linkage string

const (
	LinkageSingle   Linkage = "single"
	LinkageAverage  Linkage = "average"
	LinkageComplete Linkage = "complete"
	LinkageWard     Linkage = "ward"
)

// Valid reports whether l names a supported linkage method.
func (l Linkage) Valid() bool {
	switch l {
	case LinkageSingle, LinkageAverage, LinkageComplete, LinkageWard:
		return true
	}
	return false
}

// Request describes one allocation. Assets is required; at least one of
// Prices, Returns or Covariance must be supplied (a Distance matrix alone is
// not enough, because recursive bisection still needs the covariance).
type Request struct {
	Assets []string // ordered, unique; defines the index space of all matrices

	Prices     [][]float64 // T×N chronological close prices (optional)
	Returns    [][]float64 // T×N per-period returns (optional)
	Covariance [][]float64 // N×N (optional)
	Distance   [][]float64 // N×N, used verbatim when supplied (optional)

	// SideWeights maps asset name to +1 (buy) or -1 (sell). Missing entries
	// default to +1. When both sides are present the final weights are
	// rescaled so shorts sum to -0.5 and longs to +0.5.
	SideWeights map[string]float64

	// Linkage defaults to LinkageSingle when empty.
	Linkage Linkage
}

// Merge is one dendrogram row in scipy linkage convention: Left and Right
// are cluster ids (0..N-1 are leaves, N+k is the cluster created by merge k)
// and Size is the number of leaves in the merged cluster.
type Merge struct {
	Left     int     `json:"left"`
	Right    int     `json:"right"`
	Distance float64 `json:"distance"`
	Size     int     `json:"size"`
}

// Result is the immutable outcome of one Allocate call.
type Result struct {
	// Weights maps asset name to final weight. Without side weights these
	// are strictly positive and sum to 1; with both long and short sides
	// present the longs sum to +0.5 and the shorts to -0.5.
	Weights map[string]float64

	// Order is the quasi-diagonal permutation of original asset indices.
	Order []int

	// OrderedAssets is Assets permuted by Order (dendrogram axis labels).
	OrderedAssets []string

	// Merges are the N-1 dendrogram rows, for external plotting.
	Merges []Merge

	// Linkage is the method that produced Merges.
	Linkage Linkage

	// Warnings lists non-fatal degeneracies encountered during allocation,
	// such as variance floors substituted for zero-variance assets.
	Warnings []string
}

// Options tunes an Allocator.
type Options struct {
	// Parallel evaluates the cluster pairs of each bisection level
	// concurrently. Results are identical to sequential execution; each
	// pair only reads the covariance matrix and writes its own slot.
	Parallel bool
}

// Allocator computes HRP allocations. The zero value is ready to use.
type Allocator struct {
	opts Options
}

// New creates an Allocator with default options (sequential bisection).
func New() *Allocator {
	return &Allocator{}
}

// NewWithOptions creates an Allocator with explicit options.
func NewWithOptions(opts Options) *Allocator {
	return &Allocator{opts: opts}
}

// Allocate runs the full HRP pipeline for one request.
func (a *Allocator) Allocate(req Request) (*Result, error) {
	n := len(req.Assets)
	if n == 0 {
		return nil, ErrNoAssets
	}

	seen := make(map[string]struct{}, n)
	for _, name := range req.Assets {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate asset %q", ErrInvalidInput, name)
		}
		seen[name] = struct{}{}
	}

	linkage := req.Linkage
	if linkage == "" {
		linkage = LinkageSingle
	}
	if !linkage.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLinkage, linkage)
	}

	// Single-asset universe short-circuits the whole pipeline.
	if n == 1 {
		return &Result{
			Weights:       map[string]float64{req.Assets[0]: 1.0},
			Order:         []int{0},
			OrderedAssets: []string{req.Assets[0]},
			Merges:        []Merge{},
			Linkage:       linkage,
		}, nil
	}

	cov, dist, err := resolveInputs(req)
	if err != nil {
		return nil, err
	}

	root, merges, err := buildMergeTree(dist, linkage)
	if err != nil {
		return nil, fmt.Errorf("clustering: %w", err)
	}

	order := quasiDiagonalOrder(root)
	if len(order) != n {
		return nil, fmt.Errorf("clustering: order length %d does not match %d assets", len(order), n)
	}

	weights, warnings, err := recursiveBisection(cov, order, a.opts.Parallel)
	if err != nil {
		return nil, fmt.Errorf("bisection: %w", err)
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("bisection: %w: weight sum %v", ErrSingularCluster, sum)
	}

	final := make(map[string]float64, n)
	for i, name := range req.Assets {
		final[name] = weights[i] / sum
	}

	if req.SideWeights != nil {
		final = adjustLongShort(final, req.SideWeights)
	}

	ordered := make([]string, n)
	for pos, idx := range order {
		ordered[pos] = req.Assets[idx]
	}

	return &Result{
		Weights:       final,
		Order:         order,
		OrderedAssets: ordered,
		Merges:        merges,
		Linkage:       linkage,
		Warnings:      warnings,
	}, nil
}
