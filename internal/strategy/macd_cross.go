package strategy

import (
	"fmt"
	"sync"

	"kalushael-go/internal/indicator"
	"kalushael-go/internal/signal"
)

// MACDCross emits a signal when the MACD histogram flips sign, i.e. the MACD
// line crosses its smoothed signal line.
type MACDCross struct {
	fast, slow, smooth int
	mu                 sync.Mutex
	states             map[string]*macdState
}

type macdState struct {
	macd     *indicator.MACD
	lastHist float64
	hasHist  bool
}

// NewMACDCross builds a MACD crossover strategy with the given periods.
func NewMACDCross(fast, slow, smooth int) *MACDCross {
	if fast <= 0 {
		fast = 12
	}
	if slow <= fast {
		slow = 26
	}
	if smooth <= 0 {
		smooth = 9
	}
	return &MACDCross{fast: fast, slow: slow, smooth: smooth, states: make(map[string]*macdState)}
}

// Name returns the configured identifier for logging.
func (m *MACDCross) Name() string { return "MACDCross" }

// OnTick is a no-op; crossovers are evaluated on closed candles.
func (m *MACDCross) OnTick(signal.Tick) *signal.Signal { return nil }

// OnCandle updates the symbol MACD and emits on histogram sign flips.
func (m *MACDCross) OnCandle(c signal.Candle) *signal.Signal {
	if c.Symbol == "" || c.Close <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.states[c.Symbol]
	if state == nil {
		state = &macdState{macd: indicator.NewMACD(m.fast, m.slow, m.smooth)}
		m.states[c.Symbol] = state
	}
	state.macd.Update(c)
	if !state.macd.Ready() {
		return nil
	}

	hist := state.macd.Value()
	prev, had := state.lastHist, state.hasHist
	state.lastHist = hist
	state.hasHist = true
	if !had || hist == 0 || (prev >= 0) == (hist >= 0) {
		return nil
	}

	score := 1.0
	if hist < 0 {
		score = -1.0
	}
	reason := fmt.Sprintf("macd=%.4f signal=%.4f hist %.4f→%.4f", state.macd.Line(), state.macd.Signal(), prev, hist)
	return &signal.Signal{Symbol: c.Symbol, Score: score, Reason: reason, Strategy: m.Name(), Ts: c.End}
}
