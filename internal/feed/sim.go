package feed

import (
	"context"
	"math"
	"math/rand"
	"time"

	"kalushael-go/internal/metrics"
	"kalushael-go/internal/signal"
)

// simWalk holds per-symbol random-walk state. Sizes are drawn lognormal so
// volume clusters the way real tape does; the aggressor side follows the
// direction of the step.
type simWalk struct {
	price float64
	rng   *rand.Rand
}

func (f *Feed) runSim(ctx context.Context, out chan<- signal.Tick) error {
	symbols := f.snapshotSymbols()
	walks := make(map[string]*simWalk, len(symbols))
	for i, sym := range symbols {
		// Offset per-symbol seeds so symbols do not move in lockstep.
		walks[sym] = &simWalk{
			price: f.sim.StartPrice,
			rng:   rand.New(rand.NewSource(f.sim.Seed + int64(i))),
		}
	}

	f.log.Info().Str("provider", ProviderSim).Int64("seed", f.sim.Seed).
		Strs("symbols", symbols).Msg("starting simulated market data feed")

	ticker := time.NewTicker(f.sim.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			for _, sym := range f.snapshotSymbols() {
				walk := walks[sym]
				if walk == nil {
					walk = &simWalk{
						price: f.sim.StartPrice,
						rng:   rand.New(rand.NewSource(f.sim.Seed + int64(len(walks)))),
					}
					walks[sym] = walk
				}
				tick := walk.step(sym, f.sim, ts)
				select {
				case out <- tick:
					metrics.TicksTotal.WithLabelValues(sym).Inc()
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

func (w *simWalk) step(symbol string, p SimParams, ts time.Time) signal.Tick {
	ret := p.DriftPerTick + p.Volatility*w.rng.NormFloat64()
	w.price *= 1 + ret
	if w.price < 1e-6 {
		w.price = 1e-6
	}
	size := math.Exp(w.rng.NormFloat64()*0.5) * 0.1
	side := 1
	if ret < 0 {
		side = -1
	}
	return signal.Tick{Symbol: symbol, Price: w.price, Size: size, Side: side, Ts: ts}
}

// SimSeries generates n deterministic ticks without a ticker or context,
// which backtests and tests use to get a reproducible series synchronously.
func SimSeries(symbol string, p SimParams, n int, start time.Time) []signal.Tick {
	if p.StartPrice <= 0 {
		p.StartPrice = 100
	}
	if p.Interval <= 0 {
		p.Interval = 250 * time.Millisecond
	}
	walk := &simWalk{price: p.StartPrice, rng: rand.New(rand.NewSource(p.Seed))}
	out := make([]signal.Tick, n)
	for i := 0; i < n; i++ {
		out[i] = walk.step(symbol, p, start.Add(time.Duration(i)*p.Interval))
	}
	return out
}
