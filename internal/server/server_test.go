package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/aristath/hierarch/internal/config"
	"github.com/aristath/hierarch/internal/modules/allocation"
	allocationhandlers "github.com/aristath/hierarch/internal/modules/allocation/handlers"
	"github.com/aristath/hierarch/internal/modules/universe"
	universehandlers "github.com/aristath/hierarch/internal/modules/universe/handlers"
	"github.com/aristath/hierarch/pkg/hrp"
)

func setupServer(t *testing.T) *Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, universe.InitSchema(db))
	require.NoError(t, allocation.InitSchema(db))

	log := zerolog.Nop()
	securities := universe.NewSecurityRepository(db, log)
	history := universe.NewHistoryDB(db, log)
	service := allocation.NewService(
		hrp.New(),
		allocation.NewRepository(db, log),
		securities,
		history,
		allocation.Defaults{},
		log,
	)

	return New(Config{
		Log:                log,
		Config:             &config.Config{Port: 0, DevMode: true},
		AllocationHandlers: allocationhandlers.NewHandler(service, log),
		UniverseHandlers:   universehandlers.NewHandler(securities, history, log),
	})
}

func TestHealthEndpoint(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSystemStatsEndpoint(t *testing.T) {
	srv := setupServer(t)

	req := httptest.NewRequest("GET", "/api/system/stats", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var stats SystemStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Greater(t, stats.Goroutines, 0)
	assert.GreaterOrEqual(t, stats.MemoryTotalMB, stats.MemoryUsedMB)
}

func TestAPIRoutesAreMounted(t *testing.T) {
	srv := setupServer(t)

	paths := []string{
		"/api/allocation/runs",
		"/api/universe/securities",
	}

	for _, path := range paths {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
