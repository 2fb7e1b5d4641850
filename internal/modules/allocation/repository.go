package allocation

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrRunNotFound is returned when no run exists for the requested id.
var ErrRunNotFound = errors.New("allocation: run not found")

// Repository handles allocation run database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new allocation run repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "allocation_runs").Logger(),
	}
}

// Save persists one allocation run
func (r *Repository) Save(run *Run) error {
	assets, err := json.Marshal(run.Assets)
	if err != nil {
		return fmt.Errorf("failed to marshal assets: %w", err)
	}
	weights, err := json.Marshal(run.Weights)
	if err != nil {
		return fmt.Errorf("failed to marshal weights: %w", err)
	}
	order, err := json.Marshal(run.Order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	merges, err := json.Marshal(run.Merges)
	if err != nil {
		return fmt.Errorf("failed to marshal merges: %w", err)
	}
	warnings, err := json.Marshal(run.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
		INSERT INTO allocation_runs (id, linkage, assets, weights, asset_order, merges, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, run.ID, run.Linkage, string(assets), string(weights),
		string(order), string(merges), string(warnings), run.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert allocation run: %w", err)
	}

	return nil
}

// GetByID returns one run by id
func (r *Repository) GetByID(id string) (*Run, error) {
	query := `
		SELECT id, linkage, assets, weights, asset_order, merges, warnings, created_at
		FROM allocation_runs WHERE id = ?
	`
	return r.scanRun(r.db.QueryRow(query, id))
}

// Latest returns the most recent run
func (r *Repository) Latest() (*Run, error) {
	query := `
		SELECT id, linkage, assets, weights, asset_order, merges, warnings, created_at
		FROM allocation_runs ORDER BY created_at DESC, id DESC LIMIT 1
	`
	return r.scanRun(r.db.QueryRow(query))
}

// List returns the most recent runs, newest first
func (r *Repository) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, linkage, assets, weights, asset_order, merges, warnings, created_at
		FROM allocation_runs ORDER BY created_at DESC, id DESC LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocation runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocation runs: %w", err)
	}

	return runs, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanRun(row rowScanner) (*Run, error) {
	var run Run
	var assets, weights, order, merges, warnings, createdAt string

	err := row.Scan(&run.ID, &run.Linkage, &assets, &weights, &order, &merges, &warnings, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan allocation run: %w", err)
	}

	if err := json.Unmarshal([]byte(assets), &run.Assets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assets for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(weights), &run.Weights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weights for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(order), &run.Order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(merges), &run.Merges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal merges for run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal warnings for run %s: %w", run.ID, err)
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = t
	}

	// Rebuild the axis labels from the stored order.
	run.OrderedAssets = orderedAssets(run.Assets, run.Order)

	return &run, nil
}

func orderedAssets(assets []string, order []int) []string {
	ordered := make([]string, 0, len(order))
	for _, idx := range order {
		if idx >= 0 && idx < len(assets) {
			ordered = append(ordered, assets[idx])
		}
	}
	return ordered
}
