package types

import "time"

// RecordAction classifies an execution record.
type RecordAction string

const (
	RecordEntry       RecordAction = "entry"
	RecordExit        RecordAction = "exit"
	RecordPartialExit RecordAction = "partial_exit"
)

// ExecutionRecord is an append-only audit entry. Exactly one record exists
// per status transition; records are never mutated or deleted.
type ExecutionRecord struct {
	ID               string       `json:"id"`
	Action           RecordAction `json:"action"`
	PositionID       string       `json:"position_id"`
	RecommendationID string       `json:"recommendation_id,omitempty"`
	Ticker           string       `json:"ticker"`
	Side             Side         `json:"position_type"`
	Contracts        int          `json:"contracts"`
	Remaining        int          `json:"remaining_contracts"`
	Price            int          `json:"price"`
	Reason           string       `json:"reason,omitempty"`
	ProfitCents      int64        `json:"profit_loss_cents"`
	VenueOrderID     string       `json:"order_id,omitempty"`
	Timestamp        time.Time    `json:"timestamp"`
}

// Closing reports whether the record realized profit or loss.
func (r ExecutionRecord) Closing() bool {
	return r.Action == RecordExit || r.Action == RecordPartialExit
}
