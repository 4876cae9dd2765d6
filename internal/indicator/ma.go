package indicator

import (
	"fmt"

	"kalushael-go/internal/signal"
)

// SMA is a streaming simple moving average over candle closes.
type SMA struct {
	period int
	closes []float64
}

// NewSMA creates a simple moving average indicator with the given period.
func NewSMA(period int) *SMA {
	if period < 1 {
		period = 1
	}
	return &SMA{period: period, closes: make([]float64, 0, period)}
}

func (m *SMA) Name() string { return fmt.Sprintf("SMA(%d)", m.period) }
func (m *SMA) Warmup() int  { return m.period }
func (m *SMA) Reset()       { m.closes = m.closes[:0] }
func (m *SMA) Ready() bool  { return len(m.closes) >= m.period }

func (m *SMA) Update(c signal.Candle) {
	m.closes = append(m.closes, c.Close)
	if len(m.closes) > m.period {
		m.closes = m.closes[1:]
	}
}

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return 0
	}
	sum := 0.0
	for _, close := range m.closes {
		sum += close
	}
	return sum / float64(len(m.closes))
}

// EMA is a streaming exponential moving average seeded with an SMA of the
// first period closes, then updated with the standard multiplier formula.
type EMA struct {
	period     int
	multiplier float64
	ema        float64
	count      int
	warmupSum  float64
}

// NewEMA creates an exponential moving average indicator with the given period.
func NewEMA(period int) *EMA {
	if period < 1 {
		period = 1
	}
	return &EMA{period: period, multiplier: 2.0 / float64(period+1)}
}

func (e *EMA) Name() string { return fmt.Sprintf("EMA(%d)", e.period) }
func (e *EMA) Warmup() int  { return e.period }
func (e *EMA) Ready() bool  { return e.count >= e.period }

func (e *EMA) Reset() {
	e.ema = 0
	e.count = 0
	e.warmupSum = 0
}

func (e *EMA) Update(c signal.Candle) {
	e.UpdateValue(c.Close)
}

// UpdateValue feeds a raw value instead of a candle close; MACD uses this to
// smooth its own line.
func (e *EMA) UpdateValue(v float64) {
	if e.count < e.period {
		e.warmupSum += v
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum / float64(e.period)
		}
		return
	}
	e.ema = (v-e.ema)*e.multiplier + e.ema
}

func (e *EMA) Value() float64 {
	if !e.Ready() {
		return 0
	}
	return e.ema
}
