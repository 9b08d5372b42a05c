package app

import (
	"context"
	"testing"
	"time"

	"parlay/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paperConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:      "test",
			LogLevel: "error",
			HTTPAddr: "127.0.0.1:0",
		},
		Venue:   config.VenueConfig{Mode: "paper"},
		Trading: config.TradingConfig{ExecutionMode: "manual", BaseContracts: 10},
		Monitor: config.MonitorConfig{IntervalSeconds: 1},
	}
}

func TestNewApp(t *testing.T) {
	t.Run("paper mode builds without touching disk", func(t *testing.T) {
		a, err := NewApp(paperConfig())
		require.NoError(t, err)
		require.NotNil(t, a.Executor())
		require.NotNil(t, a.Summary)
		assert.Equal(t, "paper", a.Summary.VenueMode)
		assert.Equal(t, "manual", a.Summary.ExecutionMode)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewApp(nil)
		assert.Error(t, err)
	})

	t.Run("unknown venue mode", func(t *testing.T) {
		cfg := paperConfig()
		cfg.Venue.Mode = "binance"
		_, err := NewApp(cfg)
		assert.Error(t, err)
	})

	t.Run("missing rules file", func(t *testing.T) {
		cfg := paperConfig()
		cfg.Monitor.RulesPath = "does/not/exist.yaml"
		_, err := NewApp(cfg)
		assert.Error(t, err)
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := NewApp(paperConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop on cancel")
	}
}
