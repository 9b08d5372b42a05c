// Package venue abstracts the prediction-market venue: order placement and
// market snapshot queries. The execution core only sees the Connector
// interface; concrete clients live alongside it.
package venue

import (
	"context"
	"time"

	"parlay/internal/types"
)

// OrderSide is the venue's buy/sell axis, distinct from the YES/NO side.
type OrderSide string

const (
	OrderBuy  OrderSide = "buy"
	OrderSell OrderSide = "sell"
)

// OrderRequest carries one order to the venue. Price is integer cents.
type OrderRequest struct {
	Ticker string
	Side   OrderSide
	Type   types.Side
	Price  int
	Size   int
}

// Validate enforces the venue's parameter contract before any network call.
func (r OrderRequest) Validate() error {
	if r.Ticker == "" {
		return types.NewValidationError("ticker", "must not be empty")
	}
	if r.Side != OrderBuy && r.Side != OrderSell {
		return types.NewValidationError("side", "%q not in {buy, sell}", string(r.Side))
	}
	if r.Type != types.SideYes && r.Type != types.SideNo {
		return types.NewValidationError("type", "must be yes or no")
	}
	if r.Price < 1 || r.Price > 99 {
		return types.NewValidationError("price", "%d outside [1,99] cents", r.Price)
	}
	if r.Size <= 0 {
		return types.NewValidationError("size", "%d must be positive", r.Size)
	}
	return nil
}

// OrderResult is the venue's acknowledgement of a placed order.
type OrderResult struct {
	OrderID string
	Status  string
}

// Snapshot is one coherent observation of a market. CloseTime is nil when
// the venue does not expose it.
type Snapshot struct {
	Ticker    string
	YesPrice  int
	NoPrice   int
	CloseTime *time.Time
	Volume    int64
}

// Connector is the narrow venue surface the execution core consumes.
type Connector interface {
	// PlaceOrder submits an order. Implementations validate the request
	// before any network call and wrap transport failures in VenueError.
	PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	// MarketSnapshot fetches current prices for a ticker. Returns
	// ErrSnapshotUnavailable (possibly wrapped) when the market cannot be
	// observed right now.
	MarketSnapshot(ctx context.Context, ticker string) (*Snapshot, error)
}
