// Package universe manages the investable universe: securities and their
// daily price history.
package universe

// Security represents one investable asset
type Security struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// DailyPrice represents one daily close
type DailyPrice struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}
