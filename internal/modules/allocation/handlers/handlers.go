// Package handlers provides HTTP handlers for allocation operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/hierarch/internal/modules/allocation"
	"github.com/aristath/hierarch/pkg/hrp"
)

// Handler handles allocation HTTP requests
type Handler struct {
	service *allocation.Service
	log     zerolog.Logger
}

// NewHandler creates a new allocation handler
func NewHandler(service *allocation.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "allocation").Logger(),
	}
}

// HandleRun handles POST /api/allocation/run
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req allocation.RunRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	run, err := h.service.Run(req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, hrp.ErrNoAssets),
			errors.Is(err, hrp.ErrInvalidInput),
			errors.Is(err, hrp.ErrUnsupportedLinkage):
			status = http.StatusBadRequest
		}
		h.log.Warn().Err(err).Msg("Allocation run failed")
		http.Error(w, err.Error(), status)
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleListRuns handles GET /api/allocation/runs
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	runs, err := h.service.ListRuns(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list allocation runs")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*allocation.Run{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

// HandleGetRun handles GET /api/allocation/runs/{id}
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.service.GetRun(id)
	if err != nil {
		h.respondRunError(w, id, err)
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleGetLatestRun handles GET /api/allocation/runs/latest
func (h *Handler) HandleGetLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.LatestRun()
	if err != nil {
		h.respondRunError(w, "latest", err)
		return
	}

	h.writeJSON(w, http.StatusOK, run)
}

// HandleGetDendrogram handles GET /api/allocation/runs/{id}/dendrogram
func (h *Handler) HandleGetDendrogram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dendrogram, err := h.service.DendrogramForRun(id)
	if err != nil {
		h.respondRunError(w, id, err)
		return
	}

	h.writeJSON(w, http.StatusOK, dendrogram)
}

func (h *Handler) respondRunError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, allocation.ErrRunNotFound) {
		http.Error(w, "run not found: "+id, http.StatusNotFound)
		return
	}
	h.log.Error().Err(err).Str("run_id", id).Msg("Failed to load allocation run")
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
