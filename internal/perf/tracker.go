// Package perf derives trade performance metrics from the audit log.
package perf

import (
	"context"

	"parlay/internal/psych"
	"parlay/internal/store"

	"github.com/shopspring/decimal"
)

// Metrics summarizes realized results. Monetary figures are dollars.
type Metrics struct {
	TotalTrades   int             `json:"total_trades"`
	WinningTrades int             `json:"winning_trades"`
	LosingTrades  int             `json:"losing_trades"`
	WinRate       decimal.Decimal `json:"win_rate"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	AverageProfit decimal.Decimal `json:"average_profit"`
	Factors       psych.Factors   `json:"psychological_factors"`
}

// Tracker recomputes metrics from closing records on demand. It holds no
// state of its own, so it never drifts from the audit log.
type Tracker struct {
	records store.RecordStore
	psych   *psych.State
}

func NewTracker(records store.RecordStore, state *psych.State) *Tracker {
	return &Tracker{records: records, psych: state}
}

// Metrics computes win rate and profit figures over every closing record.
// Break-even trades count as losses.
func (t *Tracker) Metrics(ctx context.Context) (Metrics, error) {
	m := Metrics{Factors: t.psych.Snapshot()}

	recs, err := t.records.ListClosing(ctx)
	if err != nil {
		return Metrics{}, err
	}

	var totalCents int64
	for _, r := range recs {
		m.TotalTrades++
		totalCents += r.ProfitCents
		if r.ProfitCents > 0 {
			m.WinningTrades++
		} else {
			m.LosingTrades++
		}
	}
	if m.TotalTrades == 0 {
		return m, nil
	}

	trades := decimal.NewFromInt(int64(m.TotalTrades))
	m.WinRate = decimal.NewFromInt(int64(m.WinningTrades)).Div(trades).Round(4)
	m.TotalProfit = decimal.New(totalCents, -2)
	m.AverageProfit = m.TotalProfit.Div(trades).Round(4)
	return m, nil
}
