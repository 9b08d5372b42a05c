package exit

import "time"

// Rules are the tunable thresholds behind the evaluator's triggers.
type Rules struct {
	// ExpiryCutoff closes positions when the market is this close to its
	// close time.
	ExpiryCutoff time.Duration
	// DynamicStopPct exits on an adverse move of at least this fraction of
	// the entry price (0.15 = 15%).
	DynamicStopPct float64
	// PartialProfitPct takes partial profit on a favorable move of at
	// least this fraction.
	PartialProfitPct float64
	// PartialCloseRatio is the share of remaining contracts closed when
	// partial profit triggers.
	PartialCloseRatio float64
}

// DefaultRules mirrors the strategy's reference thresholds.
func DefaultRules() Rules {
	return Rules{
		ExpiryCutoff:      5 * time.Minute,
		DynamicStopPct:    0.15,
		PartialProfitPct:  0.25,
		PartialCloseRatio: 0.5,
	}
}

// RuleProvider yields the rule set for the current cycle. The registry
// implements it with hot reload; StaticRules pins a fixed set.
type RuleProvider interface {
	Rules() Rules
}

// StaticRules is a RuleProvider with no reload behavior.
type StaticRules Rules

func (s StaticRules) Rules() Rules { return Rules(s) }
