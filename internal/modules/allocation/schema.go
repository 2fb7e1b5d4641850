package allocation

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the allocation tables if they do not exist.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS allocation_runs (
		id            TEXT PRIMARY KEY,
		linkage       TEXT NOT NULL,
		assets        TEXT NOT NULL,
		weights       TEXT NOT NULL,
		asset_order   TEXT NOT NULL,
		merges        TEXT NOT NULL,
		warnings      TEXT NOT NULL DEFAULT '[]',
		created_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_allocation_runs_created_at ON allocation_runs(created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create allocation schema: %w", err)
	}
	return nil
}
