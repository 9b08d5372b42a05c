// Package executor turns approved recommendations into venue orders and
// owns the exit paths that unwind the resulting positions.
package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parlay/internal/book"
	"parlay/internal/logger"
	"parlay/internal/notifier"
	"parlay/internal/psych"
	"parlay/internal/sizing"
	"parlay/internal/store"
	"parlay/internal/types"
	"parlay/internal/venue"

	"github.com/google/uuid"
)

// Manager coordinates sizing, order placement, the position book, the
// audit log and the psychological feedback loop.
type Manager struct {
	venue         venue.Connector
	book          *book.Book
	records       store.RecordStore
	positions     store.PositionStore
	psych         *psych.State
	notify        notifier.TextNotifier
	baseContracts int
}

// NewManager wires the executor. positions and notify may be nil.
func NewManager(conn venue.Connector, bk *book.Book, records store.RecordStore,
	positions store.PositionStore, state *psych.State, notify notifier.TextNotifier,
	baseContracts int) *Manager {
	if baseContracts <= 0 {
		baseContracts = 10
	}
	return &Manager{
		venue:         conn,
		book:          bk,
		records:       records,
		positions:     positions,
		psych:         state,
		notify:        notify,
		baseContracts: baseContracts,
	}
}

// Book exposes the active-position arena for the monitor and HTTP surface.
func (m *Manager) Book() *book.Book { return m.book }

// Psych exposes the factor state for metrics reporting.
func (m *Manager) Psych() *psych.State { return m.psych }

// Execute places an entry order for the recommendation. Manual mode
// returns pending_approval without touching the venue. Validation failures
// are rejected before any venue call; on venue failure no position is
// created and no record is appended.
func (m *Manager) Execute(ctx context.Context, rec types.Recommendation, mode Mode) (*ExecutionResult, error) {
	now := time.Now()
	if mode == ModeManual {
		logger.Infof("executor: %s held for manual approval", rec.Ticker)
		return &ExecutionResult{
			Status:           StatusPendingApproval,
			RecommendationID: rec.ID,
			Timestamp:        now,
		}, nil
	}

	if err := rec.Validate(); err != nil {
		return failedResult(rec.ID, err), err
	}

	size := sizing.Size(rec, m.baseContracts, m.psych.Snapshot())
	order, err := m.venue.PlaceOrder(ctx, venue.OrderRequest{
		Ticker: rec.Ticker,
		Side:   venue.OrderBuy,
		Type:   rec.Side,
		Price:  rec.EntryPrice,
		Size:   size,
	})
	if err != nil {
		logger.Errorf("executor: entry order for %s failed: %v", rec.Ticker, err)
		return failedResult(rec.ID, err), err
	}

	pos := types.Position{
		ID:               newPositionID(),
		RecommendationID: rec.ID,
		Ticker:           rec.Ticker,
		Side:             rec.Side,
		Contracts:        size,
		Remaining:        size,
		EntryPrice:       rec.EntryPrice,
		EntryTime:        now,
		TargetExit:       rec.TargetExit,
		StopLoss:         rec.StopLoss,
		Status:           types.PositionActive,
		VenueOrderID:     order.OrderID,
	}
	if err := m.book.Insert(&pos); err != nil {
		return failedResult(rec.ID, err), err
	}
	m.savePosition(ctx, pos)
	m.appendRecord(ctx, types.ExecutionRecord{
		ID:               uuid.NewString(),
		Action:           types.RecordEntry,
		PositionID:       pos.ID,
		RecommendationID: rec.ID,
		Ticker:           pos.Ticker,
		Side:             pos.Side,
		Contracts:        size,
		Remaining:        size,
		Price:            rec.EntryPrice,
		VenueOrderID:     order.OrderID,
		Timestamp:        now,
	})
	m.sendText(fmt.Sprintf("*Entry* %s %s %d@%d¢ (pos %s)", pos.Ticker, pos.Side, size, rec.EntryPrice, pos.ID))
	logger.Infof("executor: opened %s %s %d@%d¢ pos=%s order=%s",
		pos.Ticker, pos.Side, size, rec.EntryPrice, pos.ID, order.OrderID)

	return &ExecutionResult{
		Status:           StatusExecuted,
		Action:           string(types.RecordEntry),
		RecommendationID: rec.ID,
		PositionID:       pos.ID,
		OrderID:          order.OrderID,
		Contracts:        size,
		Remaining:        size,
		Price:            rec.EntryPrice,
		Timestamp:        now,
	}, nil
}

// ExecuteExit closes the full remaining size of a position at price. On
// venue failure the position stays on the book untouched so the next
// monitoring cycle retries. A second exit on the same id observes
// ErrPositionNotFound and records nothing.
func (m *Manager) ExecuteExit(ctx context.Context, positionID string, price int, reason string) (*ExecutionResult, error) {
	return m.closePosition(ctx, positionID, price, 0, reason)
}

// ExecutePartialExit closes contracts of the position's remaining size.
// Closing everything that way is treated as a full close.
func (m *Manager) ExecutePartialExit(ctx context.Context, positionID string, price, contracts int, reason string) (*ExecutionResult, error) {
	if contracts <= 0 {
		err := types.NewValidationError("contracts", "%d must be positive", contracts)
		return failedResult("", err), err
	}
	return m.closePosition(ctx, positionID, price, contracts, reason)
}

// closePosition runs the exit inside the book's per-id exclusive section.
// contracts == 0 means the full remaining size.
func (m *Manager) closePosition(ctx context.Context, positionID string, price, contracts int, reason string) (*ExecutionResult, error) {
	var (
		closed    types.Position
		closedN   int
		profit    int64
		orderID   string
		action    types.RecordAction
		closeTime = time.Now()
	)

	err := m.book.Update(positionID, func(pos *types.Position) error {
		if price < 1 || price > 99 {
			return types.NewValidationError("price", "%d outside [1,99] cents", price)
		}
		n := contracts
		if n == 0 {
			n = pos.Remaining
		}
		if n > pos.Remaining {
			return types.NewValidationError("contracts", "%d exceeds remaining %d", n, pos.Remaining)
		}

		order, err := m.venue.PlaceOrder(ctx, venue.OrderRequest{
			Ticker: pos.Ticker,
			Side:   venue.OrderSell,
			Type:   pos.Side,
			Price:  price,
			Size:   n,
		})
		if err != nil {
			// Position left unchanged; retried next cycle.
			return err
		}

		profit = pos.ProfitFor(price, n)
		pos.Remaining -= n
		if pos.Remaining == 0 {
			pos.Status = types.PositionClosed
			pos.ExitPrice = price
			pos.ExitTime = closeTime
			pos.ExitReason = reason
			pos.ProfitCents += profit
			action = types.RecordExit
		} else {
			pos.Status = types.PositionPartiallyClosed
			pos.ProfitCents += profit
			action = types.RecordPartialExit
		}
		if contracts > 0 && action == types.RecordExit {
			// Partial request that drained the position.
			action = types.RecordPartialExit
		}
		closed = *pos
		closedN = n
		orderID = order.OrderID
		return nil
	})
	if err != nil {
		if strings.TrimSpace(reason) == "" {
			reason = "manual"
		}
		logger.Warnf("executor: exit %s (%s) failed: %v", positionID, reason, err)
		return failedResult("", err), err
	}

	m.savePosition(ctx, closed)
	m.appendRecord(ctx, types.ExecutionRecord{
		ID:               uuid.NewString(),
		Action:           action,
		PositionID:       closed.ID,
		RecommendationID: closed.RecommendationID,
		Ticker:           closed.Ticker,
		Side:             closed.Side,
		Contracts:        closedN,
		Remaining:        closed.Remaining,
		Price:            price,
		Reason:           reason,
		ProfitCents:      profit,
		VenueOrderID:     orderID,
		Timestamp:        closeTime,
	})
	m.psych.RecordOutcome(profit > 0)
	m.sendText(fmt.Sprintf("*%s* %s %d@%d¢ pnl=%s (%s)",
		strings.ReplaceAll(string(action), "_", " "), closed.Ticker, closedN, price, formatCents(profit), reason))
	logger.Infof("executor: %s %s %d@%d¢ pos=%s remaining=%d pnl=%d¢ reason=%s",
		action, closed.Ticker, closedN, price, closed.ID, closed.Remaining, profit, reason)

	return &ExecutionResult{
		Status:      StatusExecuted,
		Action:      string(action),
		PositionID:  closed.ID,
		OrderID:     orderID,
		Contracts:   closedN,
		Remaining:   closed.Remaining,
		Price:       price,
		Reason:      reason,
		ProfitCents: profit,
		Timestamp:   closeTime,
	}, nil
}

func (m *Manager) savePosition(ctx context.Context, pos types.Position) {
	if m.positions == nil {
		return
	}
	if err := m.positions.SavePosition(ctx, pos); err != nil {
		logger.Warnf("executor: persisting position %s failed: %v", pos.ID, err)
	}
}

func (m *Manager) appendRecord(ctx context.Context, rec types.ExecutionRecord) {
	if m.records == nil {
		return
	}
	if err := m.records.Append(ctx, rec); err != nil {
		logger.Errorf("executor: appending %s record for %s failed: %v", rec.Action, rec.PositionID, err)
	}
}

func (m *Manager) sendText(text string) {
	if m.notify == nil {
		return
	}
	if err := m.notify.SendText(text); err != nil {
		logger.Warnf("executor: notification failed: %v", err)
	}
}

func failedResult(recommendationID string, err error) *ExecutionResult {
	return &ExecutionResult{
		Status:           StatusFailed,
		RecommendationID: recommendationID,
		Error:            err.Error(),
		Timestamp:        time.Now(),
	}
}

// newPositionID returns a short unique id, enough entropy for a process
// lifetime of positions.
func newPositionID() string {
	return uuid.NewString()[:8]
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
