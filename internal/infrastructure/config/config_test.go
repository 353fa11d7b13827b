package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  database_path: /tmp/test.db
ledger:
  source: csv
  csv_path: /tmp/ledger.csv
  cache_ttl: 10m
  since_year: 2024
allocation:
  min_share_percent: 2.5
  precision: 2
api:
  port: 9090
observability:
  logging:
    level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.db", cfg.Storage.DatabasePath)
	assert.Equal(t, "csv", cfg.Ledger.Source)
	assert.Equal(t, 10*time.Minute, cfg.Ledger.TTL())
	assert.Equal(t, 2024, cfg.Ledger.Since().Year())
	assert.Equal(t, 2.5, cfg.Allocation.MinSharePercent)
	assert.Equal(t, int32(2), cfg.Allocation.Precision)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_SPP_DB", "/data/spp.db")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  database_path: ${TEST_SPP_DB}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/spp.db", cfg.Storage.DatabasePath)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Ledger.Source)
	assert.Equal(t, 1.0, cfg.Allocation.MinSharePercent)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, time.Duration(0), cfg.Ledger.TTL(), "no cache unless configured")
}

func TestLoadOrEnv_FallsBackToEnv(t *testing.T) {
	t.Setenv("SPP_LEDGER_SOURCE", "csv")
	t.Setenv("SPP_SINCE_YEAR", "2023")

	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, "csv", cfg.Ledger.Source)
	assert.Equal(t, 2023, cfg.Ledger.Since().Year())
	assert.Equal(t, 5*time.Minute, cfg.Ledger.TTL())
}
