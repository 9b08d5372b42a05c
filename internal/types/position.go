package types

import "time"

// PositionStatus is the lifecycle state of a holding. Transitions only run
// forward: active -> partially_closed -> closed, or active -> closed.
type PositionStatus string

const (
	PositionActive          PositionStatus = "active"
	PositionPartiallyClosed PositionStatus = "partially_closed"
	PositionClosed          PositionStatus = "closed"
)

// Position is an open or partially-open holding created by a successful
// entry order. Remaining starts at Contracts and only ever decreases;
// mutation goes through the book's per-id exclusive section.
type Position struct {
	ID               string         `json:"position_id"`
	RecommendationID string         `json:"recommendation_id"`
	Ticker           string         `json:"ticker"`
	Side             Side           `json:"position_type"`
	Contracts        int            `json:"contracts"`
	Remaining        int            `json:"remaining_contracts"`
	EntryPrice       int            `json:"entry_price"`
	EntryTime        time.Time      `json:"entry_time"`
	TargetExit       TargetRange    `json:"target_exit"`
	StopLoss         int            `json:"stop_loss"`
	Status           PositionStatus `json:"status"`
	VenueOrderID     string         `json:"order_id"`

	ExitPrice   int       `json:"exit_price,omitempty"`
	ExitTime    time.Time `json:"exit_time,omitempty"`
	ExitReason  string    `json:"exit_reason,omitempty"`
	ProfitCents int64     `json:"profit_loss_cents,omitempty"`
}

// Open reports whether the position still has contracts on the book.
func (p *Position) Open() bool {
	return p.Status == PositionActive || p.Status == PositionPartiallyClosed
}

// ProfitFor computes realized profit in cents for closing n contracts at
// exitPrice: (exit-entry)*n for YES, (entry-exit)*n for NO.
func (p *Position) ProfitFor(exitPrice, n int) int64 {
	diff := int64(exitPrice - p.EntryPrice)
	if p.Side == SideNo {
		diff = -diff
	}
	return diff * int64(n)
}
