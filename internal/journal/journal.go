// Package journal persists fills, equity snapshots, and signals to SQLite so
// every engine action leaves an auditable row.
package journal

import (
	"time"

	"kalushael-go/internal/execution"
	"kalushael-go/internal/signal"
)

// EquitySnapshot is one point on the account equity curve.
type EquitySnapshot struct {
	Ts          time.Time
	Cash        float64
	Equity      float64
	RealizedPnL float64
	FeesPaid    float64
}

// SymbolPnL aggregates realized trade flow for one symbol.
type SymbolPnL struct {
	Symbol     string
	BuyQty     float64
	SellQty    float64
	NetCash    float64 // sells minus buys, fee-inclusive
	Fills      int
}

// Journal is the persistence surface the engine writes through.
type Journal interface {
	RecordFill(execution.Fill) error
	RecordEquity(EquitySnapshot) error
	RecordSignal(signal.Signal) error
	RecentFills(limit int) ([]execution.Fill, error)
	EquityCurve(since time.Time) ([]EquitySnapshot, error)
	PnLBySymbol() ([]SymbolPnL, error)
	Close() error
}
