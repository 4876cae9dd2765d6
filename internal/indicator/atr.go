package indicator

import (
	"fmt"
	"math"

	"kalushael-go/internal/signal"
)

// ATR is a streaming average true range with Wilder smoothing.
type ATR struct {
	period    int
	atr       float64
	prevClose float64
	havePrev  bool
	count     int
	warmupSum float64
}

// NewATR creates an average true range indicator with the given period.
func NewATR(period int) *ATR {
	if period < 1 {
		period = 14
	}
	return &ATR{period: period}
}

func (a *ATR) Name() string { return fmt.Sprintf("ATR(%d)", a.period) }
func (a *ATR) Warmup() int  { return a.period + 1 }
func (a *ATR) Ready() bool  { return a.count >= a.period }

func (a *ATR) Reset() {
	a.atr = 0
	a.prevClose = 0
	a.havePrev = false
	a.count = 0
	a.warmupSum = 0
}

func (a *ATR) Update(c signal.Candle) {
	if !a.havePrev {
		a.prevClose = c.Close
		a.havePrev = true
		return
	}
	tr := math.Max(c.High-c.Low,
		math.Max(math.Abs(c.High-a.prevClose), math.Abs(c.Low-a.prevClose)))
	a.prevClose = c.Close

	if a.count < a.period {
		a.warmupSum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.warmupSum / float64(a.period)
		}
		return
	}
	p := float64(a.period)
	a.atr = (a.atr*(p-1) + tr) / p
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return 0
	}
	return a.atr
}
