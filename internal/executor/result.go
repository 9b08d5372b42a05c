package executor

import "time"

// Mode selects between immediate placement and manual approval.
type Mode string

const (
	// ModeManual short-circuits: the caller is expected to route the
	// recommendation through human approval, nothing is placed.
	ModeManual Mode = "manual"
	// ModeAuto places the order immediately.
	ModeAuto Mode = "auto"
)

// Status of an execution attempt.
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusExecuted        Status = "executed"
	StatusFailed          Status = "failed"
)

// ExecutionResult reports the outcome of an entry or exit attempt.
type ExecutionResult struct {
	Status           Status    `json:"status"`
	Action           string    `json:"action,omitempty"`
	RecommendationID string    `json:"recommendation_id,omitempty"`
	PositionID       string    `json:"position_id,omitempty"`
	OrderID          string    `json:"order_id,omitempty"`
	Contracts        int       `json:"contracts,omitempty"`
	Remaining        int       `json:"remaining_contracts,omitempty"`
	Price            int       `json:"price,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	ProfitCents      int64     `json:"profit_loss_cents,omitempty"`
	Error            string    `json:"error,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
