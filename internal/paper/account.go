package paper

import (
	"errors"
	"sync"

	"kalushael-go/internal/execution"
)

// FillRecorder captures paper fills for later inspection.
type FillRecorder interface {
	Record(execution.Fill)
}

const epsilon = 1e-9

var (
	errInsufficientCash     = errors.New("insufficient cash for buy")
	errInsufficientPosition = errors.New("insufficient position to sell")
)

type positionState struct {
	Qty     float64
	AvgCost float64
}

// Account tracks virtual cash, realized PnL, and per-symbol positions while trading in paper mode.
type Account struct {
	mu                   sync.Mutex
	startingCash         float64
	cash                 float64
	realizedPnL          float64
	feesPaid             float64
	maxPositionPerSymbol float64
	maxPositionNotional  float64
	positions            map[string]positionState
}

// PositionSnapshot exposes a read-only view of a single symbol position.
type PositionSnapshot struct {
	Qty         float64
	AvgCost     float64
	MarketValue float64
	Unrealized  float64
}

// Snapshot represents a thread-safe view of the account state, optionally marked to market using provided prices.
type Snapshot struct {
	Cash        float64
	RealizedPnL float64
	FeesPaid    float64
	Equity      float64
	Positions   map[string]PositionSnapshot
}

// NewAccount constructs an account populated with starting cash and optional position caps.
func NewAccount(startingCash, maxPositionPerSymbol, maxPositionNotionalUSD float64) *Account {
	return &Account{
		startingCash:         startingCash,
		cash:                 startingCash,
		maxPositionPerSymbol: maxPositionPerSymbol,
		maxPositionNotional:  maxPositionNotionalUSD,
		positions:            make(map[string]positionState),
	}
}

// StartingCash returns the initial bankroll used to compute drawdown.
func (a *Account) StartingCash() float64 { return a.startingCash }

// ApplyFill attempts to execute a fill at its price, mutating balances if
// successful. Fees are debited from cash and tracked separately from
// trade P&L.
func (a *Account) ApplyFill(symbol string, side execution.Side, qty, price, fee float64) error {
	if qty <= 0 {
		return errors.New("quantity must be positive")
	}
	if price <= 0 {
		return errors.New("price must be positive")
	}
	if fee < 0 {
		return errors.New("fee must not be negative")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.positions[symbol]
	notional := qty * price

	switch side {
	case execution.Buy:
		if notional+fee > a.cash+epsilon {
			return errInsufficientCash
		}
		newQty := state.Qty + qty
		if a.maxPositionPerSymbol > 0 && newQty > a.maxPositionPerSymbol+epsilon {
			return errors.New("position limit exceeded")
		}
		if a.maxPositionNotional > 0 && newQty*price > a.maxPositionNotional+epsilon {
			return errors.New("position notional limit exceeded")
		}
		newAvg := price
		if newQty > 0 {
			newAvg = ((state.AvgCost * state.Qty) + notional) / newQty
		}
		a.cash -= notional + fee
		a.feesPaid += fee
		a.positions[symbol] = positionState{Qty: newQty, AvgCost: newAvg}

	case execution.Sell:
		if state.Qty <= 0 || state.Qty+epsilon < qty {
			return errInsufficientPosition
		}
		realized := (price - state.AvgCost) * qty
		a.realizedPnL += realized
		a.cash += notional - fee
		a.feesPaid += fee
		newQty := state.Qty - qty
		if newQty <= epsilon {
			delete(a.positions, symbol)
		} else {
			a.positions[symbol] = positionState{Qty: newQty, AvgCost: state.AvgCost}
		}

	default:
		return errors.New("unknown order side")
	}
	return nil
}

// Snapshot returns a copy of balances, optionally marked using the supplied prices map.
func (a *Account) Snapshot(prices map[string]float64) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	positions := make(map[string]PositionSnapshot, len(a.positions))
	equity := a.cash
	for sym, pos := range a.positions {
		mark := prices[sym]
		marketValue := pos.Qty * mark
		unrealized := (mark - pos.AvgCost) * pos.Qty
		if mark == 0 {
			marketValue = 0
			unrealized = 0
		}
		positions[sym] = PositionSnapshot{
			Qty:         pos.Qty,
			AvgCost:     pos.AvgCost,
			MarketValue: marketValue,
			Unrealized:  unrealized,
		}
		equity += marketValue
	}

	return Snapshot{
		Cash:        a.cash,
		RealizedPnL: a.realizedPnL,
		FeesPaid:    a.feesPaid,
		Equity:      equity,
		Positions:   positions,
	}
}

// AvailableCash reports free cash that can be deployed into new longs.
func (a *Account) AvailableCash() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cash
}

// Position returns the current position size for the supplied symbol.
func (a *Account) Position(symbol string) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.positions[symbol].Qty
}

// PortfolioNotional values all open positions at their average cost, the
// number the risk manager caps.
func (a *Account) PortfolioNotional() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	total := 0.0
	for _, pos := range a.positions {
		total += pos.Qty * pos.AvgCost
	}
	return total
}

// RealizedPnL returns total closed-trade profit and loss.
func (a *Account) RealizedPnL() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.realizedPnL
}
