package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
app:
  env: prod
  log_level: debug
  http_addr: ":8080"
venue:
  mode: kalshi
  demo: true
trading:
  execution_mode: auto
  base_contracts: 25
monitor:
  interval_seconds: 10
  rules_path: configs/exit_rules.yaml
store:
  db_path: /tmp/pos.db
  audit_log_path: /tmp/audit.db
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.App.Env)
		assert.Equal(t, "debug", cfg.App.LogLevel)
		assert.Equal(t, "kalshi", cfg.Venue.Mode)
		assert.True(t, cfg.Venue.Demo)
		assert.Equal(t, "auto", cfg.Trading.ExecutionMode)
		assert.Equal(t, 25, cfg.Trading.BaseContracts)
		assert.Equal(t, 10, cfg.Monitor.IntervalSeconds)
		assert.Equal(t, "configs/exit_rules.yaml", cfg.Monitor.RulesPath)
	})

	t.Run("defaults fill gaps", func(t *testing.T) {
		path := writeConfig(t, "app:\n  env: dev\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.App.LogLevel)
		assert.Equal(t, "paper", cfg.Venue.Mode)
		assert.Equal(t, "manual", cfg.Trading.ExecutionMode)
		assert.Equal(t, 10, cfg.Trading.BaseContracts)
		assert.Equal(t, 30, cfg.Monitor.IntervalSeconds)
		assert.Equal(t, "data/parlay.db", cfg.Store.DBPath)
		assert.Equal(t, "data/executions.db", cfg.Store.AuditLogPath)
	})

	t.Run("unknown venue mode", func(t *testing.T) {
		path := writeConfig(t, "venue:\n  mode: binance\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("live kalshi needs credentials", func(t *testing.T) {
		path := writeConfig(t, "venue:\n  mode: kalshi\n  demo: false\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("unknown execution mode", func(t *testing.T) {
		path := writeConfig(t, "trading:\n  execution_mode: dry-run\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("telegram enabled without token", func(t *testing.T) {
		path := writeConfig(t, "notify:\n  telegram:\n    enabled: true\n")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Load("  ")
		assert.Error(t, err)
	})
}
