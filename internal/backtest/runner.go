package backtest

import (
	"fmt"

	"github.com/rs/zerolog"

	"kalushael-go/internal/indicator"
	"kalushael-go/internal/signal"
	"kalushael-go/internal/strategy"
)

const atrPeriod = 14

// Runner replays candles through a strategy with a long-only cash account.
// Fills happen at the candle close that produced the signal, degraded by the
// configured fee.
type Runner struct {
	Strategy     strategy.Strategy
	StartingCash float64
	FeeBps       float64
	Log          zerolog.Logger
}

// Trade is one round trip produced during the replay.
type Trade struct {
	Symbol     string
	EntryPrice float64
	ExitPrice  float64
	Qty        float64
	PnL        float64
}

// Result summarizes a completed replay.
type Result struct {
	Candles      int
	Signals      int
	Trades       []Trade
	Wins         int
	Losses       int
	NetPnL       float64
	FeesPaid     float64
	EndingEquity float64
	MaxDrawdown  float64 // fraction of peak equity
	ATR          float64 // average true range over the series, 0 if too short
}

// WinRate returns wins over closed trades, 0 when no trade closed.
func (r Result) WinRate() float64 {
	if len(r.Trades) == 0 {
		return 0
	}
	return float64(r.Wins) / float64(len(r.Trades))
}

// Run replays the candle series. Any open position is closed at the final
// candle so results always compare in cash terms.
func (r *Runner) Run(candles []signal.Candle) (Result, error) {
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("runner requires a strategy")
	}
	if r.StartingCash <= 0 {
		return Result{}, fmt.Errorf("starting cash must be positive")
	}
	if len(candles) == 0 {
		return Result{}, fmt.Errorf("no candles to replay")
	}

	res := Result{EndingEquity: r.StartingCash}
	cash := r.StartingCash
	var qty, entry float64
	peak := cash
	symbol := candles[0].Symbol
	atr := indicator.NewATR(atrPeriod)

	for _, c := range candles {
		res.Candles++
		atr.Update(c)
		sig := r.Strategy.OnCandle(c)
		if sig != nil {
			res.Signals++
		}

		switch {
		case sig != nil && sig.Score > 0 && qty == 0:
			fee := cash * r.FeeBps / 10_000
			spend := cash - fee
			qty = spend / c.Close
			entry = c.Close
			cash = 0
			res.FeesPaid += fee
		case sig != nil && sig.Score < 0 && qty > 0:
			proceeds := qty * c.Close
			fee := proceeds * r.FeeBps / 10_000
			cash = proceeds - fee
			res.FeesPaid += fee
			r.closeTrade(&res, symbol, entry, c.Close, qty)
			qty = 0
		}

		equity := cash + qty*c.Close
		if equity > peak {
			peak = equity
		}
		if peak > 0 {
			if dd := (peak - equity) / peak; dd > res.MaxDrawdown {
				res.MaxDrawdown = dd
			}
		}
	}

	if qty > 0 {
		last := candles[len(candles)-1]
		proceeds := qty * last.Close
		fee := proceeds * r.FeeBps / 10_000
		cash = proceeds - fee
		res.FeesPaid += fee
		r.closeTrade(&res, symbol, entry, last.Close, qty)
	}

	res.EndingEquity = cash
	res.NetPnL = cash - r.StartingCash
	res.ATR = atr.Value()
	r.Log.Info().Int("candles", res.Candles).Int("trades", len(res.Trades)).
		Float64("net_pnl", res.NetPnL).Float64("max_dd", res.MaxDrawdown).
		Msg("backtest complete")
	return res, nil
}

func (r *Runner) closeTrade(res *Result, symbol string, entry, exit, qty float64) {
	pnl := (exit - entry) * qty
	res.Trades = append(res.Trades, Trade{Symbol: symbol, EntryPrice: entry, ExitPrice: exit, Qty: qty, PnL: pnl})
	if pnl > 0 {
		res.Wins++
	} else {
		res.Losses++
	}
}
