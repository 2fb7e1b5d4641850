package allocation

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/aristath/hierarch/internal/modules/universe"
	"github.com/aristath/hierarch/pkg/hrp"
)

func setupService(t *testing.T) (*Service, *universe.HistoryDB, *universe.SecurityRepository) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, universe.InitSchema(db))
	require.NoError(t, InitSchema(db))

	log := zerolog.Nop()
	securities := universe.NewSecurityRepository(db, log)
	history := universe.NewHistoryDB(db, log)
	repo := NewRepository(db, log)
	service := NewService(hrp.New(), repo, securities, history, Defaults{}, log)

	return service, history, securities
}

func TestService_RunWithCovariance(t *testing.T) {
	service, _, _ := setupService(t)

	run, err := service.Run(RunRequest{
		Assets: []string{"A", "B", "C"},
		Covariance: [][]float64{
			{1.0, 0.2, 0.2},
			{0.2, 1.0, 0.9},
			{0.2, 0.9, 1.0},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "single", run.Linkage)
	assert.Len(t, run.Weights, 3)
	assert.Greater(t, run.Weights["A"], run.Weights["B"])

	// The run must be retrievable and identical.
	loaded, err := service.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Weights, loaded.Weights)
	assert.Equal(t, run.Order, loaded.Order)
	assert.Equal(t, run.Merges, loaded.Merges)
	assert.Equal(t, run.OrderedAssets, loaded.OrderedAssets)
}

func TestService_RunFromStoredPrices(t *testing.T) {
	service, history, securities := setupService(t)

	require.NoError(t, securities.Upsert(universe.Security{Symbol: "AAA", Active: true}))
	require.NoError(t, securities.Upsert(universe.Security{Symbol: "BBB", Active: true}))

	dates := []string{"2026-01-02", "2026-01-03", "2026-01-04", "2026-01-05", "2026-01-06"}
	aaa := []float64{100, 101, 100.5, 102, 101.2}
	bbb := []float64{50, 49.5, 50.2, 49.8, 50.5}
	for i, date := range dates {
		require.NoError(t, history.AddPrice("AAA", universe.DailyPrice{Date: date, Close: aaa[i]}))
		require.NoError(t, history.AddPrice("BBB", universe.DailyPrice{Date: date, Close: bbb[i]}))
	}

	// Empty request allocates over all active securities.
	run, err := service.Run(RunRequest{})
	require.NoError(t, err)

	require.Len(t, run.Weights, 2)
	sum := 0.0
	for _, w := range run.Weights {
		assert.Greater(t, w, 0.0)
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.ElementsMatch(t, []string{"AAA", "BBB"}, run.Assets)
}

func TestService_RunNoUniverse(t *testing.T) {
	service, _, _ := setupService(t)

	_, err := service.Run(RunRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active securities")
}

func TestService_RunInvalidLinkage(t *testing.T) {
	service, _, _ := setupService(t)

	_, err := service.Run(RunRequest{
		Assets:     []string{"A", "B"},
		Covariance: [][]float64{{1, 0}, {0, 1}},
		Linkage:    "centroid",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, hrp.ErrUnsupportedLinkage)
}

func TestService_LatestAndList(t *testing.T) {
	service, _, _ := setupService(t)

	cov := [][]float64{{1, 0}, {0, 1}}
	first, err := service.Run(RunRequest{Assets: []string{"A", "B"}, Covariance: cov})
	require.NoError(t, err)
	second, err := service.Run(RunRequest{Assets: []string{"A", "B"}, Covariance: cov, Linkage: "ward"})
	require.NoError(t, err)

	runs, err := service.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	latest, err := service.LatestRun()
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.NotEqual(t, first.ID, latest.ID)
}

func TestService_Dendrogram(t *testing.T) {
	service, _, _ := setupService(t)

	run, err := service.Run(RunRequest{
		Assets: []string{"A", "B", "C"},
		Covariance: [][]float64{
			{1.0, 0.2, 0.2},
			{0.2, 1.0, 0.9},
			{0.2, 0.9, 1.0},
		},
	})
	require.NoError(t, err)

	dendrogram, err := service.DendrogramForRun(run.ID)
	require.NoError(t, err)

	assert.Equal(t, run.ID, dendrogram.RunID)
	assert.Equal(t, []string{"A", "B", "C"}, dendrogram.Labels)
	require.Len(t, dendrogram.Merges, 2)
	assert.Equal(t, 1, dendrogram.Merges[0].Left)
	assert.Equal(t, 2, dendrogram.Merges[0].Right)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	service, _, _ := setupService(t)

	_, err := service.GetRun("does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
