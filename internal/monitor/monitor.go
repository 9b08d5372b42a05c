// Package monitor polls market prices for every open position and fires
// exits through the executor when an exit condition triggers.
package monitor

import (
	"context"
	"errors"
	"time"

	"parlay/internal/book"
	"parlay/internal/executor"
	"parlay/internal/logger"
	"parlay/internal/scheduler"
	"parlay/internal/strategy/exit"
	"parlay/internal/types"
	"parlay/internal/venue"
)

// Monitor owns the evaluation loop. One snapshot failure or one exit
// failure never aborts the rest of the cycle.
type Monitor struct {
	venue     venue.Connector
	book      *book.Book
	exec      *executor.Manager
	evaluator *exit.Evaluator
	interval  time.Duration
}

func New(conn venue.Connector, bk *book.Book, exec *executor.Manager, ev *exit.Evaluator, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		venue:     conn,
		book:      bk,
		exec:      exec,
		evaluator: ev,
		interval:  interval,
	}
}

// Run blocks, evaluating all open positions every interval until ctx is
// cancelled. Cancellation takes effect between positions; an in-flight
// exit always completes.
func (m *Monitor) Run(ctx context.Context) {
	s := scheduler.NewIntervalScheduler(ctx, m.interval)
	s.Name = "monitor"
	s.RunImmediately = true
	s.Start(func() {
		m.RunCycle(ctx)
	})
}

// RunCycle evaluates every open position once and executes any triggered
// exits. It returns the non-hold decisions that were acted on.
func (m *Monitor) RunCycle(ctx context.Context) []exit.Decision {
	positions := m.book.List()
	if len(positions) == 0 {
		return nil
	}
	logger.Debugf("monitor: cycle start, %d open position(s)", len(positions))

	var acted []exit.Decision
	for _, pos := range positions {
		if ctx.Err() != nil {
			logger.Infof("monitor: cycle aborted, ctx done")
			return acted
		}
		d, ok := m.evaluateOne(ctx, pos)
		if ok {
			acted = append(acted, d)
		}
	}
	return acted
}

func (m *Monitor) evaluateOne(ctx context.Context, pos types.Position) (exit.Decision, bool) {
	snap, err := m.venue.MarketSnapshot(ctx, pos.Ticker)
	if err != nil {
		if errors.Is(err, types.ErrSnapshotUnavailable) {
			logger.Warnf("monitor: no snapshot for %s, skipping %s this cycle", pos.Ticker, pos.ID)
		} else {
			logger.Errorf("monitor: snapshot for %s failed: %v", pos.Ticker, err)
		}
		return exit.Decision{}, false
	}

	d := m.evaluator.Evaluate(pos, *snap, time.Now())
	switch d.Action {
	case exit.FullExit:
		if _, err := m.exec.ExecuteExit(ctx, pos.ID, d.Price, d.Reason); err != nil {
			logExitFailure(pos.ID, d, err)
			return exit.Decision{}, false
		}
	case exit.PartialExit:
		if _, err := m.exec.ExecutePartialExit(ctx, pos.ID, d.Price, d.Contracts, d.Reason); err != nil {
			logExitFailure(pos.ID, d, err)
			return exit.Decision{}, false
		}
	default:
		return exit.Decision{}, false
	}
	return d, true
}

func logExitFailure(positionID string, d exit.Decision, err error) {
	if errors.Is(err, types.ErrPositionNotFound) {
		// Closed between listing and execution, nothing to do.
		logger.Debugf("monitor: %s already closed, %s skipped", positionID, d.Reason)
		return
	}
	logger.Warnf("monitor: %s exit for %s failed: %v", d.Reason, positionID, err)
}
