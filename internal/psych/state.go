// Package psych holds the trade-outcome feedback state that biases future
// position sizing. It is process-wide, resets to neutral on start, and is
// written only when a trade closes.
package psych

import "sync"

// Factors is one immutable observation of the three adjustment factors.
// 1.0 is neutral. Sentiment and crowd stay within [0.5, 1.5]; recency bias
// within [1.0, 1.5].
type Factors struct {
	Sentiment   float64 `json:"market_sentiment"`
	Crowd       float64 `json:"crowd_behavior"`
	RecencyBias float64 `json:"recency_bias"`
}

const (
	factorFloor   = 0.5
	factorCeiling = 1.5

	sentimentStep = 0.05
	crowdStep     = 0.02
	recencyStep   = 0.10
)

// Neutral is the startup factor set.
func Neutral() Factors {
	return Factors{Sentiment: 1.0, Crowd: 1.0, RecencyBias: 1.0}
}

// State guards the factor set. Reads see a complete, consistent triple;
// writes replace all three atomically.
type State struct {
	mu      sync.RWMutex
	factors Factors
}

// NewState starts neutral.
func NewState() *State {
	return &State{factors: Neutral()}
}

// Snapshot returns the current factor set by value.
func (s *State) Snapshot() Factors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.factors
}

// RecordOutcome folds one closed trade into the factor set. Wins push
// sentiment toward greed and crowd toward momentum; losses the other way.
// Recency bias strengthens with every close regardless of sign.
func (s *State) RecordOutcome(win bool) Factors {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.factors
	if win {
		next.Sentiment = clamp(next.Sentiment+sentimentStep, factorFloor, factorCeiling)
		next.Crowd = clamp(next.Crowd+crowdStep, factorFloor, factorCeiling)
	} else {
		next.Sentiment = clamp(next.Sentiment-sentimentStep, factorFloor, factorCeiling)
		next.Crowd = clamp(next.Crowd-crowdStep, factorFloor, factorCeiling)
	}
	next.RecencyBias = clamp(next.RecencyBias+recencyStep, 1.0, factorCeiling)
	s.factors = next
	return next
}

// Reset returns the state to neutral defaults.
func (s *State) Reset() {
	s.mu.Lock()
	s.factors = Neutral()
	s.mu.Unlock()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
