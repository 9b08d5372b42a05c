// Package scheduler drives periodic work from a cancellable loop.
package scheduler

import (
	"context"
	"time"

	"parlay/internal/logger"
)

// IntervalScheduler runs a task every Interval until the context is
// cancelled. It ticks on a fixed cadence from the start time rather than
// aligning to wall-clock boundaries.
type IntervalScheduler struct {
	Name           string
	Interval       time.Duration
	RunImmediately bool

	ctx   context.Context
	nowFn func() time.Time
}

func NewIntervalScheduler(ctx context.Context, interval time.Duration) *IntervalScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &IntervalScheduler{
		Interval: interval,
		ctx:      ctx,
		nowFn:    time.Now,
	}
}

// Start blocks until the context is cancelled. A slow task delays the
// next tick; cycles never overlap.
func (s *IntervalScheduler) Start(task func()) {
	if s == nil {
		return
	}
	if task == nil {
		logger.Warnf("IntervalScheduler: task is nil, exit")
		return
	}
	if s.Interval <= 0 {
		logger.Warnf("IntervalScheduler: invalid interval=%s, exit", s.Interval)
		return
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}
	if s.nowFn == nil {
		s.nowFn = time.Now
	}

	prefix := "IntervalScheduler"
	if s.Name != "" {
		prefix = prefix + "[" + s.Name + "]"
	}
	startAt := s.nowFn().UTC()
	logger.Infof("%s: started interval=%s run_immediately=%v at=%s",
		prefix, s.Interval, s.RunImmediately, startAt.Format(time.RFC3339))

	if s.RunImmediately {
		task()
	}

	timer := time.NewTimer(s.Interval)
	defer timer.Stop()
	for {
		select {
		case <-s.ctx.Done():
			logger.Infof("%s: ctx done, exit (uptime=%s)", prefix, s.nowFn().UTC().Sub(startAt).Truncate(time.Second))
			return
		case <-timer.C:
		}
		task()
		timer.Reset(s.Interval)
	}
}
