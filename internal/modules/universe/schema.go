package universe

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the universe tables if they do not exist.
func InitSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS securities (
		symbol     TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		active     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS daily_prices (
		symbol TEXT NOT NULL,
		date   TEXT NOT NULL,
		close  REAL NOT NULL,
		PRIMARY KEY (symbol, date)
	);

	CREATE INDEX IF NOT EXISTS idx_daily_prices_date ON daily_prices(date);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create universe schema: %w", err)
	}
	return nil
}
