package model

import "gorm.io/datatypes"

// PositionModel is the GORM row for a position's lifecycle snapshot.
// RawJSON carries the full position payload for post-mortem review without
// schema churn.
type PositionModel struct {
	ID               int64          `gorm:"column:id;primaryKey"`
	PositionID       string         `gorm:"column:position_id;uniqueIndex"`
	RecommendationID string         `gorm:"column:recommendation_id"`
	Ticker           string         `gorm:"column:ticker;index"`
	Side             string         `gorm:"column:position_type"`
	Contracts        int            `gorm:"column:contracts"`
	Remaining        int            `gorm:"column:remaining_contracts"`
	EntryPrice       int            `gorm:"column:entry_price"`
	TargetLow        int            `gorm:"column:target_low"`
	TargetHigh       int            `gorm:"column:target_high"`
	StopLoss         int            `gorm:"column:stop_loss"`
	Status           string         `gorm:"column:status;index"`
	VenueOrderID     string         `gorm:"column:order_id"`
	ExitPrice        int            `gorm:"column:exit_price"`
	ExitReason       string         `gorm:"column:exit_reason"`
	ProfitCents      int64          `gorm:"column:profit_loss_cents"`
	RawJSON          datatypes.JSON `gorm:"column:raw_json;type:TEXT"`
	EntryUnix        int64          `gorm:"column:entry_at"`
	ExitUnix         int64          `gorm:"column:exit_at"`
	UpdatedAtUnix    int64          `gorm:"column:updated_at"`
}

func (PositionModel) TableName() string { return "positions" }
