// Package handlers provides HTTP handlers for universe management.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hierarch/internal/modules/universe"
)

// Handler serves universe endpoints
type Handler struct {
	securities *universe.SecurityRepository
	history    *universe.HistoryDB
	log        zerolog.Logger
}

// NewHandler creates a new universe handler
func NewHandler(securities *universe.SecurityRepository, history *universe.HistoryDB, log zerolog.Logger) *Handler {
	return &Handler{
		securities: securities,
		history:    history,
		log:        log.With().Str("handler", "universe").Logger(),
	}
}

// HandleListSecurities returns all securities in the universe
func (h *Handler) HandleListSecurities(w http.ResponseWriter, _ *http.Request) {
	securities, err := h.securities.GetAll()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list securities")
		http.Error(w, "failed to list securities", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"securities": securities})
}

// HandleUpsertSecurity creates or updates one security
func (h *Handler) HandleUpsertSecurity(w http.ResponseWriter, r *http.Request) {
	var security universe.Security
	if err := json.NewDecoder(r.Body).Decode(&security); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	security.Symbol = strings.TrimSpace(strings.ToUpper(security.Symbol))
	if security.Symbol == "" {
		http.Error(w, "symbol is required", http.StatusBadRequest)
		return
	}

	if err := h.securities.Upsert(security); err != nil {
		h.log.Error().Err(err).Str("symbol", security.Symbol).Msg("Failed to upsert security")
		http.Error(w, "failed to save security", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, security)
}

// HandleAddPrices appends daily closes for one symbol
func (h *Handler) HandleAddPrices(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	var body struct {
		Prices []universe.DailyPrice `json:"prices"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.Prices) == 0 {
		http.Error(w, "prices are required", http.StatusBadRequest)
		return
	}

	for _, price := range body.Prices {
		if price.Date == "" || price.Close <= 0 {
			http.Error(w, "each price needs a date and a positive close", http.StatusBadRequest)
			return
		}
		if err := h.history.AddPrice(symbol, price); err != nil {
			h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to store price")
			http.Error(w, "failed to store prices", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"stored": len(body.Prices),
	})
}

// HandleGetPrices returns recent closes for one symbol, oldest first
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	days := 252
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	prices, err := h.history.GetRecentCloses(symbol, days)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load prices")
		http.Error(w, "failed to load prices", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"prices": prices,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
