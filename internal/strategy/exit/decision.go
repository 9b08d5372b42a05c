// Package exit decides whether and how much of a position to close on each
// monitoring cycle. Triggers are evaluated in a fixed priority order and
// are mutually exclusive per cycle: the first match wins.
package exit

// Reason strings recorded with every exit decision.
const (
	ReasonTargetReached = "target_reached"
	ReasonStopLoss      = "stop_loss"
	ReasonExpiration    = "expiration"
	ReasonDynamicStop   = "dynamic_stop"
	ReasonPartialProfit = "partial_profit"
)

// Action classifies a Decision.
type Action int

const (
	Hold Action = iota
	FullExit
	PartialExit
)

func (a Action) String() string {
	switch a {
	case FullExit:
		return "full_exit"
	case PartialExit:
		return "partial_exit"
	default:
		return "hold"
	}
}

// Decision is the evaluator's verdict for one position on one cycle.
// Price is the execution price in cents; Contracts is only set for
// PartialExit.
type Decision struct {
	Action    Action `json:"action"`
	Price     int    `json:"price,omitempty"`
	Contracts int    `json:"contracts,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// HoldDecision is the no-op verdict.
var HoldDecision = Decision{Action: Hold}
