package exit

import (
	"time"

	"parlay/internal/pkg/trading"
	"parlay/internal/types"
	"parlay/internal/venue"
)

// Evaluator applies the exit triggers to one position against one coherent
// market snapshot. It holds no position state and is safe for concurrent
// use.
type Evaluator struct {
	rules RuleProvider
}

// NewEvaluator builds an evaluator; a nil provider pins the defaults.
func NewEvaluator(rules RuleProvider) *Evaluator {
	if rules == nil {
		rules = StaticRules(DefaultRules())
	}
	return &Evaluator{rules: rules}
}

// Evaluate returns at most one decision per cycle, checked in priority
// order:
//
//  1. target reached
//  2. stop-loss
//  3. time decay (market close imminent)
//  4. dynamic stop (adverse move from entry)
//  5. partial profit-taking (favorable move, remaining > 1)
//
// Anything else holds.
func (e *Evaluator) Evaluate(pos types.Position, snap venue.Snapshot, now time.Time) Decision {
	rules := e.rules.Rules()
	price := pos.Side.RelevantPrice(snap.YesPrice, snap.NoPrice)

	if pos.TargetExit.Contains(price) {
		return Decision{Action: FullExit, Price: price, Reason: ReasonTargetReached}
	}

	if stopLossHit(pos.Side, price, pos.StopLoss) {
		return Decision{Action: FullExit, Price: price, Reason: ReasonStopLoss}
	}

	if snap.CloseTime != nil && !snap.CloseTime.IsZero() {
		if snap.CloseTime.Sub(now) <= rules.ExpiryCutoff {
			return Decision{Action: FullExit, Price: price, Reason: ReasonExpiration}
		}
	}

	move := pos.Side.MoveSince(pos.EntryPrice, price)
	if decimalLTE(move, -rules.DynamicStopPct) {
		return Decision{Action: FullExit, Price: price, Reason: ReasonDynamicStop}
	}

	if pos.Remaining > 1 && decimalGTE(move, rules.PartialProfitPct) {
		contracts := trading.CalcCloseContracts(pos.Remaining, rules.PartialCloseRatio)
		return Decision{Action: PartialExit, Price: price, Contracts: contracts, Reason: ReasonPartialProfit}
	}

	return HoldDecision
}

// stopLossHit is direction-aware: YES stops out when price falls to or
// below the stop, NO when it rises to or above it.
func stopLossHit(side types.Side, price, stop int) bool {
	if stop <= 0 {
		return false
	}
	if side == types.SideNo {
		return price >= stop
	}
	return price <= stop
}
