package venue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"parlay/internal/logger"
	"parlay/internal/types"
)

// PaperConnector is an in-memory venue for paper trading and tests. Orders
// fill instantly with sequential ids; market prices are whatever the last
// SetMarket call installed.
type PaperConnector struct {
	mu          sync.Mutex
	markets     map[string]Snapshot
	orders      []OrderRequest
	nextOrderID int
}

// NewPaperConnector starts with an empty market set.
func NewPaperConnector() *PaperConnector {
	return &PaperConnector{
		markets:     make(map[string]Snapshot),
		nextOrderID: 1,
	}
}

// SetMarket installs or replaces the snapshot returned for a ticker.
func (p *PaperConnector) SetMarket(snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snap.NoPrice == 0 && snap.YesPrice > 0 {
		snap.NoPrice = 100 - snap.YesPrice
	}
	p.markets[snap.Ticker] = snap
}

// SetMarketPrice is a convenience for tests: yes price in cents, no price
// derived, closing one hour out.
func (p *PaperConnector) SetMarketPrice(ticker string, yesPrice int) {
	closeAt := time.Now().Add(time.Hour)
	p.SetMarket(Snapshot{
		Ticker:    ticker,
		YesPrice:  yesPrice,
		NoPrice:   100 - yesPrice,
		CloseTime: &closeAt,
		Volume:    1000,
	})
}

func (p *PaperConnector) PlaceOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, &types.VenueError{Op: "place_order", Err: ctx.Err()}
	default:
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	id := fmt.Sprintf("order-%d", p.nextOrderID)
	p.nextOrderID++
	p.orders = append(p.orders, req)
	logger.Debugf("paper: filled %s %s %s %d@%d¢", req.Side, req.Type.OrderType(), req.Ticker, req.Size, req.Price)
	return &OrderResult{OrderID: id, Status: "filled"}, nil
}

func (p *PaperConnector) MarketSnapshot(ctx context.Context, ticker string) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.markets[ticker]
	if !ok {
		return nil, fmt.Errorf("%w: unknown market %s", types.ErrSnapshotUnavailable, ticker)
	}
	cp := snap
	return &cp, nil
}

// Orders returns all orders placed so far, oldest first.
func (p *PaperConnector) Orders() []OrderRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OrderRequest, len(p.orders))
	copy(out, p.orders)
	return out
}
