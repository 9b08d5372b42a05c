// Package app wires configuration into the running service: venue
// connector, stores, executor, monitor and the HTTP surface.
package app

import (
	"context"
	"fmt"

	"parlay/internal/config"
	"parlay/internal/executor"
	"parlay/internal/logger"
	"parlay/internal/monitor"
	livehttp "parlay/internal/transport/http/live"

	"golang.org/x/sync/errgroup"
)

// App owns application-level orchestration: load config, build the
// dependency graph, run the monitor loop and HTTP server.
type App struct {
	cfg      *config.Config
	exec     *executor.Manager
	monitor  *monitor.Monitor
	liveHTTP *livehttp.Server
	Summary  *StartupSummary

	closers []func() error
}

// NewApp builds the application from config without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return build(cfg)
}

// Executor exposes the execution manager (for testing and replay harnesses).
func (a *App) Executor() *executor.Manager {
	if a == nil {
		return nil
	}
	return a.exec
}

// Run starts the monitor loop and the HTTP server, blocking until ctx is
// cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}

	if a.Summary != nil {
		a.Summary.Print()
	}

	group, ctx := errgroup.WithContext(ctx)

	if a.liveHTTP != nil {
		group.Go(func() error {
			if err := a.liveHTTP.Start(ctx); err != nil {
				return fmt.Errorf("live http server error: %w", err)
			}
			return nil
		})
	}

	group.Go(func() error {
		a.monitor.Run(ctx)
		return nil
	})

	err := group.Wait()
	a.close()
	return err
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warnf("app: close failed: %v", err)
		}
	}
}
