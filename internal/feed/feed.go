// Package feed hosts market data providers pushing ticks to the engine.
package feed

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"kalushael-go/internal/signal"
)

const (
	// ProviderSim emits a seeded random-walk tick stream (offline work, tests, demos).
	ProviderSim = "sim"
	// ProviderBinance streams live trades from Binance public websockets.
	ProviderBinance = "binance"
)

// Feed represents a pluggable market data stream implementation.
type Feed struct {
	provider string
	symbols  []string
	log      zerolog.Logger
	sim      SimParams
	mu       sync.RWMutex
}

// SimParams tunes the random-walk provider. The same seed, symbols, and
// parameters always produce the same tick value sequence.
type SimParams struct {
	Seed         int64
	Interval     time.Duration
	StartPrice   float64
	DriftPerTick float64
	Volatility   float64
}

// Option configures Feed construction parameters.
type Option func(*Feed)

// WithSimParams overrides the random-walk defaults.
func WithSimParams(p SimParams) Option {
	return func(f *Feed) {
		if p.Interval > 0 {
			f.sim.Interval = p.Interval
		}
		if p.StartPrice > 0 {
			f.sim.StartPrice = p.StartPrice
		}
		if p.Volatility >= 0 {
			f.sim.Volatility = p.Volatility
		}
		f.sim.Seed = p.Seed
		f.sim.DriftPerTick = p.DriftPerTick
	}
}

// NewFeed constructs a feed backed by the requested provider.
func NewFeed(provider string, symbols []string, log zerolog.Logger, opts ...Option) *Feed {
	if provider == "" {
		provider = ProviderSim
	}
	f := &Feed{
		provider: strings.ToLower(provider),
		log:      log,
		sim: SimParams{
			Seed:       1,
			Interval:   250 * time.Millisecond,
			StartPrice: 100,
			Volatility: 0.002,
		},
	}
	f.setSymbols(symbols)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetSymbols replaces the tracked symbol list (deduplicated, sorted for determinism).
func (f *Feed) SetSymbols(symbols []string) {
	f.setSymbols(symbols)
}

func (f *Feed) setSymbols(symbols []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	unique := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		unique[sym] = struct{}{}
	}
	f.symbols = f.symbols[:0]
	for sym := range unique {
		f.symbols = append(f.symbols, sym)
	}
	sort.Strings(f.symbols)
}

func (f *Feed) snapshotSymbols() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.symbols))
	copy(out, f.symbols)
	return out
}

// Run pushes ticks onto the provided channel until the context is canceled.
func (f *Feed) Run(ctx context.Context, out chan<- signal.Tick) error {
	switch f.provider {
	case ProviderBinance:
		return f.runBinance(ctx, out)
	default:
		return f.runSim(ctx, out)
	}
}
