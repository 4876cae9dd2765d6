package signal

import "time"

// CandleBuilder folds a tick stream into fixed-interval candles per symbol.
// A candle is emitted once the first tick of the next bucket arrives, so
// callers only ever see closed candles.
type CandleBuilder struct {
	interval time.Duration
	open     map[string]*Candle
}

// NewCandleBuilder creates a builder for the given bucket interval.
func NewCandleBuilder(interval time.Duration) *CandleBuilder {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CandleBuilder{
		interval: interval,
		open:     make(map[string]*Candle),
	}
}

// Interval returns the configured bucket size.
func (b *CandleBuilder) Interval() time.Duration { return b.interval }

// Add consumes a tick and returns the previous candle when the tick opens a
// new bucket. The boolean reports whether a closed candle was produced.
func (b *CandleBuilder) Add(tk Tick) (Candle, bool) {
	if tk.Symbol == "" || tk.Price <= 0 {
		return Candle{}, false
	}
	start := tk.Ts.Truncate(b.interval)
	cur := b.open[tk.Symbol]
	if cur == nil {
		b.open[tk.Symbol] = newCandle(tk, start, b.interval)
		return Candle{}, false
	}
	if start.After(cur.Start) {
		closed := *cur
		b.open[tk.Symbol] = newCandle(tk, start, b.interval)
		return closed, true
	}
	cur.Close = tk.Price
	if tk.Price > cur.High {
		cur.High = tk.Price
	}
	if tk.Price < cur.Low {
		cur.Low = tk.Price
	}
	cur.Volume += abs(tk.Price * tk.Size)
	return Candle{}, false
}

// Flush returns any still-open candles, e.g. at shutdown or end of a replay.
func (b *CandleBuilder) Flush() []Candle {
	out := make([]Candle, 0, len(b.open))
	for _, c := range b.open {
		out = append(out, *c)
	}
	b.open = make(map[string]*Candle)
	return out
}

func newCandle(tk Tick, start time.Time, interval time.Duration) *Candle {
	return &Candle{
		Symbol: tk.Symbol,
		Open:   tk.Price,
		High:   tk.Price,
		Low:    tk.Price,
		Close:  tk.Price,
		Volume: abs(tk.Price * tk.Size),
		Start:  start,
		End:    start.Add(interval),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
