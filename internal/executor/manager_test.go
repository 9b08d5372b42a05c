package executor

import (
	"context"
	"testing"

	"parlay/internal/book"
	"parlay/internal/psych"
	"parlay/internal/store"
	"parlay/internal/types"
	"parlay/internal/venue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecommendation() types.Recommendation {
	return types.Recommendation{
		ID:         "rec-1",
		Ticker:     "FED-25DEC-T3.00",
		Side:       types.SideYes,
		EntryPrice: 35,
		Confidence: 80,
		TargetExit: types.TargetRange{Low: 48, High: 50},
		StopLoss:   22,
	}
}

func newTestManager() (*Manager, *venue.PaperConnector, *store.MemoryRecordStore) {
	conn := venue.NewPaperConnector()
	conn.SetMarketPrice("FED-25DEC-T3.00", 35)
	records := store.NewMemoryRecordStore()
	m := NewManager(conn, book.New(), records, nil, psych.NewState(), nil, 10)
	return m, conn, records
}

func TestExecuteManualMode(t *testing.T) {
	m, conn, records := newTestManager()

	res, err := m.Execute(context.Background(), testRecommendation(), ModeManual)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, res.Status)
	assert.Equal(t, "rec-1", res.RecommendationID)
	assert.Empty(t, res.PositionID)
	assert.Empty(t, conn.Orders(), "manual mode must not touch the venue")
	assert.Equal(t, 0, m.Book().Len())

	recent, err := records.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestExecuteAutoEntry(t *testing.T) {
	m, conn, records := newTestManager()

	res, err := m.Execute(context.Background(), testRecommendation(), ModeAuto)
	require.NoError(t, err)
	assert.Equal(t, StatusExecuted, res.Status)
	assert.Equal(t, string(types.RecordEntry), res.Action)
	// 10 base * 1.3 confidence multiplier with neutral factors
	assert.Equal(t, 13, res.Contracts)
	assert.Len(t, res.PositionID, 8)
	assert.NotEmpty(t, res.OrderID)

	pos, ok := m.Book().Get(res.PositionID)
	require.True(t, ok)
	assert.Equal(t, types.PositionActive, pos.Status)
	assert.Equal(t, 13, pos.Remaining)
	assert.Equal(t, 35, pos.EntryPrice)
	assert.Equal(t, types.TargetRange{Low: 48, High: 50}, pos.TargetExit)

	orders := conn.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, venue.OrderBuy, orders[0].Side)
	assert.Equal(t, 13, orders[0].Size)

	recent, err := records.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, types.RecordEntry, recent[0].Action)
	assert.Equal(t, res.PositionID, recent[0].PositionID)
}

func TestExecuteRejectsInvalidRecommendation(t *testing.T) {
	m, conn, _ := newTestManager()

	rec := testRecommendation()
	rec.EntryPrice = 0
	res, err := m.Execute(context.Background(), rec, ModeAuto)
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
	assert.Equal(t, StatusFailed, res.Status)
	assert.Empty(t, conn.Orders())
	assert.Equal(t, 0, m.Book().Len())
}

func TestExecuteExit(t *testing.T) {
	m, conn, records := newTestManager()
	entry, err := m.Execute(context.Background(), testRecommendation(), ModeAuto)
	require.NoError(t, err)

	res, err := m.ExecuteExit(context.Background(), entry.PositionID, 49, "target_reached")
	require.NoError(t, err)
	assert.Equal(t, StatusExecuted, res.Status)
	assert.Equal(t, string(types.RecordExit), res.Action)
	// (49 - 35) * 13 contracts
	assert.Equal(t, int64(182), res.ProfitCents)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 0, m.Book().Len())

	orders := conn.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, venue.OrderSell, orders[1].Side)
	assert.Equal(t, 13, orders[1].Size)

	recent, err := records.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, types.RecordExit, recent[0].Action)
	assert.Equal(t, "target_reached", recent[0].Reason)

	t.Run("winning exit updates psych factors", func(t *testing.T) {
		f := m.Psych().Snapshot()
		assert.InDelta(t, 1.05, f.Sentiment, 1e-9)
		assert.InDelta(t, 1.02, f.Crowd, 1e-9)
		assert.InDelta(t, 1.10, f.RecencyBias, 1e-9)
	})

	t.Run("second exit on the same id is rejected", func(t *testing.T) {
		_, err := m.ExecuteExit(context.Background(), entry.PositionID, 49, "target_reached")
		assert.ErrorIs(t, err, types.ErrPositionNotFound)
	})
}

func TestExecuteExitLoss(t *testing.T) {
	m, _, _ := newTestManager()
	entry, err := m.Execute(context.Background(), testRecommendation(), ModeAuto)
	require.NoError(t, err)

	res, err := m.ExecuteExit(context.Background(), entry.PositionID, 20, "stop_loss")
	require.NoError(t, err)
	assert.Equal(t, int64(-195), res.ProfitCents)

	f := m.Psych().Snapshot()
	assert.InDelta(t, 0.95, f.Sentiment, 1e-9)
}

func TestExecutePartialExit(t *testing.T) {
	m, _, records := newTestManager()
	entry, err := m.Execute(context.Background(), testRecommendation(), ModeAuto)
	require.NoError(t, err)

	res, err := m.ExecutePartialExit(context.Background(), entry.PositionID, 45, 6, "partial_profit")
	require.NoError(t, err)
	assert.Equal(t, string(types.RecordPartialExit), res.Action)
	assert.Equal(t, 6, res.Contracts)
	assert.Equal(t, 7, res.Remaining)
	// (45 - 35) * 6 contracts
	assert.Equal(t, int64(60), res.ProfitCents)

	pos, ok := m.Book().Get(entry.PositionID)
	require.True(t, ok)
	assert.Equal(t, types.PositionPartiallyClosed, pos.Status)
	assert.Equal(t, 7, pos.Remaining)
	assert.Equal(t, 13, pos.Contracts, "original size is preserved")

	t.Run("oversized partial is rejected", func(t *testing.T) {
		_, err := m.ExecutePartialExit(context.Background(), entry.PositionID, 45, 8, "partial_profit")
		require.Error(t, err)
		assert.True(t, types.IsValidation(err))
		pos, _ := m.Book().Get(entry.PositionID)
		assert.Equal(t, 7, pos.Remaining)
	})

	t.Run("draining partial closes the position", func(t *testing.T) {
		res, err := m.ExecutePartialExit(context.Background(), entry.PositionID, 49, 7, "partial_profit")
		require.NoError(t, err)
		assert.Equal(t, string(types.RecordPartialExit), res.Action)
		assert.Equal(t, 0, res.Remaining)
		assert.Equal(t, 0, m.Book().Len())
	})

	recent, err := records.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

type failingConnector struct{}

func (f *failingConnector) PlaceOrder(ctx context.Context, req venue.OrderRequest) (*venue.OrderResult, error) {
	return nil, &types.VenueError{Op: "place_order", Err: assert.AnError}
}

func (f *failingConnector) MarketSnapshot(ctx context.Context, ticker string) (*venue.Snapshot, error) {
	return nil, types.ErrSnapshotUnavailable
}

func TestExecuteExitVenueFailure(t *testing.T) {
	bk := book.New()
	require.NoError(t, bk.Insert(&types.Position{
		ID:         "p1",
		Ticker:     "FED-25DEC-T3.00",
		Side:       types.SideYes,
		Contracts:  10,
		Remaining:  10,
		EntryPrice: 35,
		Status:     types.PositionActive,
	}))
	records := store.NewMemoryRecordStore()
	m := NewManager(&failingConnector{}, bk, records, nil, psych.NewState(), nil, 10)

	_, err := m.ExecuteExit(context.Background(), "p1", 49, "target_reached")
	require.Error(t, err)
	assert.True(t, types.IsVenue(err))

	pos, ok := bk.Get("p1")
	require.True(t, ok, "position stays on the book for the next cycle")
	assert.Equal(t, types.PositionActive, pos.Status)
	assert.Equal(t, 10, pos.Remaining)

	recent, err := records.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, recent)

	f := m.Psych().Snapshot()
	assert.Equal(t, psych.Neutral(), f, "failed exits do not move factors")
}

func TestExecuteEntryVenueFailure(t *testing.T) {
	m := NewManager(&failingConnector{}, book.New(), store.NewMemoryRecordStore(), nil, psych.NewState(), nil, 10)

	res, err := m.Execute(context.Background(), testRecommendation(), ModeAuto)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, 0, m.Book().Len())
}

func TestExecutePartialExitValidation(t *testing.T) {
	m, _, _ := newTestManager()
	_, err := m.ExecutePartialExit(context.Background(), "whatever", 45, 0, "partial_profit")
	require.Error(t, err)
	assert.True(t, types.IsValidation(err))
}
