package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalScheduler(t *testing.T) {
	t.Run("runs immediately when asked", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := NewIntervalScheduler(ctx, time.Hour)
		s.RunImmediately = true

		var runs atomic.Int32
		done := make(chan struct{})
		go func() {
			s.Start(func() {
				runs.Add(1)
				cancel()
			})
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(3 * time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.Equal(t, int32(1), runs.Load())
	})

	t.Run("ticks on the interval", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s := NewIntervalScheduler(ctx, 10*time.Millisecond)

		var runs atomic.Int32
		go s.Start(func() {
			if runs.Add(1) >= 3 {
				cancel()
			}
		})

		assert.Eventually(t, func() bool {
			return runs.Load() >= 3
		}, 3*time.Second, 5*time.Millisecond)
	})

	t.Run("invalid interval exits without running", func(t *testing.T) {
		s := NewIntervalScheduler(context.Background(), 0)
		ran := false
		s.Start(func() { ran = true })
		assert.False(t, ran)
	})

	t.Run("nil task exits", func(t *testing.T) {
		s := NewIntervalScheduler(context.Background(), time.Second)
		s.Start(nil)
	})
}
