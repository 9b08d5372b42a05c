package psych

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	t.Run("starts neutral", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, Factors{Sentiment: 1.0, Crowd: 1.0, RecencyBias: 1.0}, s.Snapshot())
	})

	t.Run("win nudges sentiment and crowd up", func(t *testing.T) {
		s := NewState()
		got := s.RecordOutcome(true)
		assert.InDelta(t, 1.05, got.Sentiment, 1e-9)
		assert.InDelta(t, 1.02, got.Crowd, 1e-9)
		assert.InDelta(t, 1.10, got.RecencyBias, 1e-9)
	})

	t.Run("loss nudges them down but recency still rises", func(t *testing.T) {
		s := NewState()
		got := s.RecordOutcome(false)
		assert.InDelta(t, 0.95, got.Sentiment, 1e-9)
		assert.InDelta(t, 0.98, got.Crowd, 1e-9)
		assert.InDelta(t, 1.10, got.RecencyBias, 1e-9)
	})

	t.Run("factors clamp at the ceiling", func(t *testing.T) {
		s := NewState()
		for i := 0; i < 20; i++ {
			s.RecordOutcome(true)
		}
		got := s.Snapshot()
		assert.InDelta(t, 1.5, got.Sentiment, 1e-9)
		assert.InDelta(t, 1.4, got.Crowd, 1e-9)
		assert.InDelta(t, 1.5, got.RecencyBias, 1e-9)
	})

	t.Run("factors clamp at the floor", func(t *testing.T) {
		s := NewState()
		for i := 0; i < 20; i++ {
			s.RecordOutcome(false)
		}
		got := s.Snapshot()
		assert.InDelta(t, 0.5, got.Sentiment, 1e-9)
		assert.InDelta(t, 0.6, got.Crowd, 1e-9)
		assert.InDelta(t, 1.5, got.RecencyBias, 1e-9)
	})

	t.Run("reset returns to neutral", func(t *testing.T) {
		s := NewState()
		s.RecordOutcome(true)
		s.Reset()
		assert.Equal(t, Neutral(), s.Snapshot())
	})
}
