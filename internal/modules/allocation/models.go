// Package allocation orchestrates HRP allocation runs: it resolves inputs
// from request payloads or the universe price store, executes the allocator,
// and persists run records for introspection.
package allocation

import (
	"time"

	"github.com/aristath/hierarch/pkg/hrp"
)

// Run is one persisted allocation run
type Run struct {
	ID            string             `json:"id"`
	Linkage       string             `json:"linkage"`
	Assets        []string           `json:"assets"`
	Weights       map[string]float64 `json:"weights"`
	Order         []int              `json:"order"`
	OrderedAssets []string           `json:"ordered_assets"`
	Merges        []hrp.Merge        `json:"merges"`
	Warnings      []string           `json:"warnings,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// RunRequest describes one allocation request. Either Assets plus at least
// one matrix source, or Symbols (prices are then loaded from the universe
// price store). With neither, all active securities are used.
type RunRequest struct {
	Assets      []string           `json:"assets,omitempty"`
	Prices      [][]float64        `json:"prices,omitempty"`
	Returns     [][]float64        `json:"returns,omitempty"`
	Covariance  [][]float64        `json:"covariance,omitempty"`
	Distance    [][]float64        `json:"distance,omitempty"`
	SideWeights map[string]float64 `json:"side_weights,omitempty"`
	Linkage     string             `json:"linkage,omitempty"`

	Symbols      []string `json:"symbols,omitempty"`
	LookbackDays int      `json:"lookback_days,omitempty"`
}

// Dendrogram is the introspection payload for external plotting: the merge
// rows plus axis labels in quasi-diagonal order.
type Dendrogram struct {
	RunID   string      `json:"run_id"`
	Labels  []string    `json:"labels"`
	Merges  []hrp.Merge `json:"merges"`
	Linkage string      `json:"linkage"`
}
