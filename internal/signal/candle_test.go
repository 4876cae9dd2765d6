package signal

import (
	"testing"
	"time"
)

func TestCandleBuilderEmitsOnBucketRoll(t *testing.T) {
	b := NewCandleBuilder(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if _, ok := b.Add(Tick{Symbol: "SOLUSDT", Price: 100, Size: 1, Side: 1, Ts: base}); ok {
		t.Fatalf("first tick should not close a candle")
	}
	if _, ok := b.Add(Tick{Symbol: "SOLUSDT", Price: 105, Size: 2, Side: 1, Ts: base.Add(20 * time.Second)}); ok {
		t.Fatalf("tick inside bucket should not close a candle")
	}
	if _, ok := b.Add(Tick{Symbol: "SOLUSDT", Price: 95, Size: 1, Side: -1, Ts: base.Add(40 * time.Second)}); ok {
		t.Fatalf("tick inside bucket should not close a candle")
	}

	closed, ok := b.Add(Tick{Symbol: "SOLUSDT", Price: 98, Size: 1, Side: 1, Ts: base.Add(61 * time.Second)})
	if !ok {
		t.Fatalf("expected closed candle on bucket roll")
	}
	if closed.Open != 100 || closed.High != 105 || closed.Low != 95 || closed.Close != 95 {
		t.Fatalf("unexpected OHLC: %+v", closed)
	}
	wantVol := 100.0 + 2*105 + 95
	if closed.Volume != wantVol {
		t.Fatalf("expected volume %.0f, got %.2f", wantVol, closed.Volume)
	}
	if !closed.Start.Equal(base) {
		t.Fatalf("unexpected bucket start %v", closed.Start)
	}
}

func TestCandleBuilderPerSymbolBuckets(t *testing.T) {
	b := NewCandleBuilder(time.Minute)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b.Add(Tick{Symbol: "SOLUSDT", Price: 100, Size: 1, Ts: base})
	b.Add(Tick{Symbol: "BTCUSDT", Price: 60000, Size: 1, Ts: base})

	if _, ok := b.Add(Tick{Symbol: "SOLUSDT", Price: 101, Size: 1, Ts: base.Add(90 * time.Second)}); !ok {
		t.Fatalf("expected SOLUSDT candle to close")
	}
	// BTCUSDT bucket is still open.
	flushed := b.Flush()
	if len(flushed) != 2 {
		t.Fatalf("expected 2 open candles after flush, got %d", len(flushed))
	}
}

func TestCandleBuilderIgnoresBadTicks(t *testing.T) {
	b := NewCandleBuilder(time.Minute)
	if _, ok := b.Add(Tick{Symbol: "", Price: 10, Ts: time.Now()}); ok {
		t.Fatalf("empty symbol must be ignored")
	}
	if _, ok := b.Add(Tick{Symbol: "SOLUSDT", Price: 0, Ts: time.Now()}); ok {
		t.Fatalf("non-positive price must be ignored")
	}
	if got := len(b.Flush()); got != 0 {
		t.Fatalf("expected no open candles, got %d", got)
	}
}
