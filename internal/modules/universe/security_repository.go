package universe

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// SecurityRepository handles security database operations
type SecurityRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSecurityRepository creates a new security repository
func NewSecurityRepository(db *sql.DB, log zerolog.Logger) *SecurityRepository {
	return &SecurityRepository{
		db:  db,
		log: log.With().Str("repo", "securities").Logger(),
	}
}

// Upsert inserts or updates a security
func (r *SecurityRepository) Upsert(sec Security) error {
	query := `
		INSERT INTO securities (symbol, name, active)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET name = excluded.name, active = excluded.active
	`
	if _, err := r.db.Exec(query, sec.Symbol, sec.Name, boolToInt(sec.Active)); err != nil {
		return fmt.Errorf("failed to upsert security %s: %w", sec.Symbol, err)
	}
	return nil
}

// GetActiveSymbols returns the symbols of all active securities, ordered
func (r *SecurityRepository) GetActiveSymbols() ([]string, error) {
	rows, err := r.db.Query("SELECT symbol FROM securities WHERE active = 1 ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query active securities: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating securities: %w", err)
	}

	return symbols, nil
}

// GetAll returns every security, ordered by symbol
func (r *SecurityRepository) GetAll() ([]Security, error) {
	rows, err := r.db.Query("SELECT symbol, name, active FROM securities ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query securities: %w", err)
	}
	defer rows.Close()

	var securities []Security
	for rows.Next() {
		var sec Security
		var active int
		if err := rows.Scan(&sec.Symbol, &sec.Name, &active); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		sec.Active = active != 0
		securities = append(securities, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating securities: %w", err)
	}

	return securities, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
