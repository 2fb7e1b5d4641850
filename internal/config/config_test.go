package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabasePath(t *testing.T) {
	cfg := &Config{DataDir: "/var/lib/hierarch"}

	assert.Equal(t, filepath.Join("/var/lib/hierarch", "universe.db"), cfg.DatabasePath("universe"))
	assert.Equal(t, filepath.Join("/var/lib/hierarch", "runs.db"), cfg.DatabasePath("runs"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HIERARCH_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "")
	t.Setenv("LOOKBACK_DAYS", "")
	t.Setenv("REALLOCATE_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Port)
	assert.Equal(t, 252, cfg.LookbackDays)
	assert.Equal(t, "@daily", cfg.ReallocateSchedule)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}
