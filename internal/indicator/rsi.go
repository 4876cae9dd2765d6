package indicator

import (
	"fmt"

	"kalushael-go/internal/signal"
)

// RSI is a streaming relative strength index using Wilder smoothing. The
// first period deltas seed the averages; later deltas blend in with weight
// 1/period.
type RSI struct {
	period   int
	avgGain  float64
	avgLoss  float64
	prev     float64
	havePrev bool
	count    int
}

// NewRSI creates a Wilder RSI with the given lookback period.
func NewRSI(period int) *RSI {
	if period < 2 {
		period = 2
	}
	return &RSI{period: period}
}

func (r *RSI) Name() string { return fmt.Sprintf("RSI(%d)", r.period) }

// Warmup is period+1: the first candle only establishes the previous close.
func (r *RSI) Warmup() int { return r.period + 1 }

func (r *RSI) Ready() bool { return r.count >= r.period }

func (r *RSI) Reset() {
	r.avgGain = 0
	r.avgLoss = 0
	r.prev = 0
	r.havePrev = false
	r.count = 0
}

func (r *RSI) Update(c signal.Candle) {
	if !r.havePrev {
		r.prev = c.Close
		r.havePrev = true
		return
	}
	delta := c.Close - r.prev
	r.prev = c.Close

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	if r.count < r.period {
		r.avgGain += gain
		r.avgLoss += loss
		r.count++
		if r.count == r.period {
			r.avgGain /= float64(r.period)
			r.avgLoss /= float64(r.period)
		}
		return
	}
	p := float64(r.period)
	r.avgGain = (r.avgGain*(p-1) + gain) / p
	r.avgLoss = (r.avgLoss*(p-1) + loss) / p
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		if r.avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
