// Package indicator provides streaming technical analysis over closed candles.
package indicator

import "kalushael-go/internal/signal"

// Indicator computes a single streaming value from candles. Implementations
// are deterministic and safe to reuse across live, replay, and backtest runs.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed candle and updates internal state.
	Update(c signal.Candle)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value. Callers must check Ready().
	Value() float64
}
