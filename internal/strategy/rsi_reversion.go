package strategy

import (
	"fmt"
	"sync"

	"kalushael-go/internal/indicator"
	"kalushael-go/internal/signal"
)

// RSIReversion buys oversold symbols and sells overbought ones using a
// per-symbol Wilder RSI over closed candles.
type RSIReversion struct {
	period     int
	oversold   float64
	overbought float64
	mu         sync.Mutex
	rsis       map[string]*indicator.RSI
}

// NewRSIReversion builds an RSI mean-reversion strategy.
func NewRSIReversion(period int, oversold, overbought float64) *RSIReversion {
	if period <= 1 {
		period = 14
	}
	if oversold <= 0 || oversold >= 100 {
		oversold = 30
	}
	if overbought <= oversold || overbought >= 100 {
		overbought = 70
	}
	return &RSIReversion{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
		rsis:       make(map[string]*indicator.RSI),
	}
}

// Name returns the configured identifier for logging.
func (r *RSIReversion) Name() string { return "RSIReversion" }

// OnTick is a no-op; reversion decisions wait for closed candles.
func (r *RSIReversion) OnTick(signal.Tick) *signal.Signal { return nil }

// OnCandle updates the symbol RSI and emits a signal outside the neutral band.
func (r *RSIReversion) OnCandle(c signal.Candle) *signal.Signal {
	if c.Symbol == "" || c.Close <= 0 {
		return nil
	}

	r.mu.Lock()
	rsi := r.rsis[c.Symbol]
	if rsi == nil {
		rsi = indicator.NewRSI(r.period)
		r.rsis[c.Symbol] = rsi
	}
	rsi.Update(c)
	ready := rsi.Ready()
	value := rsi.Value()
	r.mu.Unlock()

	if !ready {
		return nil
	}
	switch {
	case value <= r.oversold:
		// Scale score by how deep below the band we are.
		score := (r.oversold - value) / r.oversold
		if score > 1 {
			score = 1
		}
		reason := fmt.Sprintf("rsi=%.1f oversold<%.0f", value, r.oversold)
		return &signal.Signal{Symbol: c.Symbol, Score: score, Reason: reason, Strategy: r.Name(), Ts: c.End}
	case value >= r.overbought:
		score := (value - r.overbought) / (100 - r.overbought)
		if score > 1 {
			score = 1
		}
		reason := fmt.Sprintf("rsi=%.1f overbought>%.0f", value, r.overbought)
		return &signal.Signal{Symbol: c.Symbol, Score: -score, Reason: reason, Strategy: r.Name(), Ts: c.End}
	default:
		return nil
	}
}
