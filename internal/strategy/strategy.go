// Package strategy contains trading signal generation logic wired into the market stream.
package strategy

import (
	"strings"

	sig "kalushael-go/internal/signal"
)

// Strategy defines behaviour shared by strategy implementations used by the engine.
// Tick-driven strategies act in OnTick and ignore OnCandle; indicator-driven
// strategies wait for closed candles. Either hook may return nil.
type Strategy interface {
	OnTick(t sig.Tick) *sig.Signal
	OnCandle(c sig.Candle) *sig.Signal
	Name() string
}

// Params expresses tunable knobs required by strategy constructors.
type Params struct {
	MomentumThreshold    float64
	MomentumWindowSecs   int
	MomentumMinVolumeUSD float64
	RSIPeriod            int
	RSIOversold          float64
	RSIOverbought        float64
	MACDFast             int
	MACDSlow             int
	MACDSignal           int
}

// Build returns a strategy implementation matching the configured mode.
func Build(mode string, params Params) Strategy {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "momentum":
		return NewMomentum(params.MomentumThreshold, params.MomentumWindowSecs, params.MomentumMinVolumeUSD)
	case "rsi", "rsi_reversion":
		return NewRSIReversion(params.RSIPeriod, params.RSIOversold, params.RSIOverbought)
	case "macd", "macd_cross":
		return NewMACDCross(params.MACDFast, params.MACDSlow, params.MACDSignal)
	default:
		return NewMomentum(params.MomentumThreshold, params.MomentumWindowSecs, params.MomentumMinVolumeUSD)
	}
}
