package strategy

import (
	"fmt"
	"math"
	"sync"
	"time"

	"kalushael-go/internal/signal"
)

// Momentum emits signals when price change over a lookback window exceeds a
// threshold alongside minimum traded volume.
type Momentum struct {
	threshold    float64
	window       time.Duration
	minVolume    float64
	mu           sync.Mutex
	observations map[string]*tickSeries
}

type tickSeries struct {
	ticks []signal.Tick
}

// NewMomentum builds a momentum strategy using percent change and volume filters.
func NewMomentum(threshold float64, windowSecs int, minVolumeUSD float64) *Momentum {
	if threshold <= 0 {
		threshold = 0.02
	}
	if windowSecs <= 0 {
		windowSecs = 120
	}
	return &Momentum{
		threshold:    threshold,
		window:       time.Duration(windowSecs) * time.Second,
		minVolume:    math.Max(0, minVolumeUSD),
		observations: make(map[string]*tickSeries),
	}
}

// Name returns the configured identifier for logging.
func (m *Momentum) Name() string { return "Momentum" }

// OnCandle is a no-op; momentum works on raw ticks.
func (m *Momentum) OnCandle(signal.Candle) *signal.Signal { return nil }

// OnTick evaluates window momentum and volume to decide whether to emit a signal.
func (m *Momentum) OnTick(tk signal.Tick) *signal.Signal {
	if tk.Symbol == "" || tk.Price <= 0 {
		return nil
	}

	m.mu.Lock()
	series := m.observations[tk.Symbol]
	if series == nil {
		series = &tickSeries{}
		m.observations[tk.Symbol] = series
	}
	series.append(tk, m.window)
	oldest, latest := series.bounds()
	totalNotional := series.notional()
	m.mu.Unlock()

	if oldest.Price <= 0 {
		return nil
	}
	change := (latest.Price - oldest.Price) / oldest.Price
	if math.Abs(change) < m.threshold {
		return nil
	}
	if m.minVolume > 0 && totalNotional < m.minVolume {
		return nil
	}
	reason := fmt.Sprintf("Δ=%.2f%% volume=%.0f", change*100, totalNotional)
	return &signal.Signal{Symbol: tk.Symbol, Score: change, Reason: reason, Strategy: m.Name(), Ts: tk.Ts}
}

func (s *tickSeries) append(tk signal.Tick, window time.Duration) {
	s.ticks = append(s.ticks, tk)
	cutoff := tk.Ts.Add(-window)
	idx := 0
	for i, existing := range s.ticks {
		if existing.Ts.After(cutoff) {
			idx = i
			break
		}
		idx = i + 1
	}
	if idx > 0 && idx <= len(s.ticks) {
		s.ticks = s.ticks[idx:]
	}
}

func (s *tickSeries) bounds() (signal.Tick, signal.Tick) {
	if len(s.ticks) == 0 {
		return signal.Tick{}, signal.Tick{}
	}
	return s.ticks[0], s.ticks[len(s.ticks)-1]
}

func (s *tickSeries) notional() float64 {
	var total float64
	for _, tk := range s.ticks {
		total += math.Abs(tk.Price * tk.Size)
	}
	return total
}
