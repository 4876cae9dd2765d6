package indicator

import (
	"fmt"

	"kalushael-go/internal/signal"
)

// MACD tracks the moving average convergence divergence line, its signal
// line, and the histogram between them.
type MACD struct {
	fast   *EMA
	slow   *EMA
	smooth *EMA
}

// NewMACD creates a MACD with the given fast/slow/signal periods (classic
// defaults are 12/26/9).
func NewMACD(fast, slow, signalPeriod int) *MACD {
	if fast < 1 {
		fast = 12
	}
	if slow <= fast {
		slow = fast * 2
	}
	if signalPeriod < 1 {
		signalPeriod = 9
	}
	return &MACD{
		fast:   NewEMA(fast),
		slow:   NewEMA(slow),
		smooth: NewEMA(signalPeriod),
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD(%d,%d,%d)", m.fast.period, m.slow.period, m.smooth.period)
}

func (m *MACD) Warmup() int { return m.slow.period + m.smooth.period }

func (m *MACD) Ready() bool { return m.slow.Ready() && m.smooth.Ready() }

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.smooth.Reset()
}

func (m *MACD) Update(c signal.Candle) {
	m.fast.Update(c)
	m.slow.Update(c)
	if m.slow.Ready() {
		m.smooth.UpdateValue(m.fast.Value() - m.slow.Value())
	}
}

// Line returns fast EMA minus slow EMA.
func (m *MACD) Line() float64 {
	if !m.slow.Ready() {
		return 0
	}
	return m.fast.Value() - m.slow.Value()
}

// Signal returns the smoothed MACD line.
func (m *MACD) Signal() float64 { return m.smooth.Value() }

// Value returns the histogram (line minus signal), the quantity the
// crossover strategy watches for sign changes.
func (m *MACD) Value() float64 {
	if !m.Ready() {
		return 0
	}
	return m.Line() - m.Signal()
}
