package universe

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// HistoryDB provides access to historical price data
type HistoryDB struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryDB creates a new history database accessor
func NewHistoryDB(db *sql.DB, log zerolog.Logger) *HistoryDB {
	return &HistoryDB{
		db:  db,
		log: log.With().Str("component", "history_db").Logger(),
	}
}

// AddPrice records one daily close, replacing any existing row for the day
func (h *HistoryDB) AddPrice(symbol string, price DailyPrice) error {
	query := `
		INSERT INTO daily_prices (symbol, date, close)
		VALUES (?, ?, ?)
		ON CONFLICT(symbol, date) DO UPDATE SET close = excluded.close
	`
	if _, err := h.db.Exec(query, symbol, price.Date, price.Close); err != nil {
		return fmt.Errorf("failed to insert price for %s: %w", symbol, err)
	}
	return nil
}

// GetRecentCloses returns the most recent closes for a symbol in
// chronological order, at most limit rows.
func (h *HistoryDB) GetRecentCloses(symbol string, limit int) ([]DailyPrice, error) {
	query := `
		SELECT date, close FROM daily_prices
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT ?
	`
	rows, err := h.db.Query(query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var prices []DailyPrice
	for rows.Next() {
		var p DailyPrice
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			return nil, fmt.Errorf("failed to scan price for %s: %w", symbol, err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prices for %s: %w", symbol, err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}

	return prices, nil
}

// ClosesForSymbols builds an aligned T×N close-price matrix over the last
// lookbackDays calendar rows shared by the requested symbols. Dates where a
// symbol has no quote are forward-filled from its previous close; leading
// dates before every symbol has traded at least once are dropped.
func (h *HistoryDB) ClosesForSymbols(symbols []string, lookbackDays int) ([][]float64, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols provided")
	}

	perSymbol := make([]map[string]float64, len(symbols))
	dateSet := make(map[string]struct{})

	for i, symbol := range symbols {
		prices, err := h.GetRecentCloses(symbol, lookbackDays)
		if err != nil {
			return nil, err
		}
		if len(prices) == 0 {
			return nil, fmt.Errorf("no price history for symbol %s", symbol)
		}
		perSymbol[i] = make(map[string]float64, len(prices))
		for _, p := range prices {
			perSymbol[i][p.Date] = p.Close
			dateSet[p.Date] = struct{}{}
		}
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	last := make([]float64, len(symbols))
	seeded := make([]bool, len(symbols))
	var matrix [][]float64

	for _, date := range dates {
		complete := true
		row := make([]float64, len(symbols))
		for i := range symbols {
			if close, ok := perSymbol[i][date]; ok {
				last[i] = close
				seeded[i] = true
			}
			if !seeded[i] {
				complete = false
				continue
			}
			row[i] = last[i]
		}
		if complete {
			matrix = append(matrix, row)
		}
	}

	if len(matrix) < 2 {
		return nil, fmt.Errorf("insufficient overlapping price history for %d symbols: %d aligned rows", len(symbols), len(matrix))
	}

	h.log.Debug().
		Int("symbols", len(symbols)).
		Int("rows", len(matrix)).
		Msg("Built aligned price matrix")

	return matrix, nil
}
