package feed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"kalushael-go/internal/signal"
)

func TestSimFeedEmitsTicks(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	f := NewFeed(ProviderSim, []string{"SOLUSDT", "BTCUSDT"}, zerolog.Nop(),
		WithSimParams(SimParams{Seed: 9, Interval: 5 * time.Millisecond, StartPrice: 100, Volatility: 0.01}))
	ticks := make(chan signal.Tick, 64)
	go func() { _ = f.Run(ctx, ticks) }()

	seen := map[string]int{}
	for len(seen) < 2 {
		select {
		case tk := <-ticks:
			if tk.Price <= 0 {
				t.Fatalf("non-positive price: %+v", tk)
			}
			if tk.Side != 1 && tk.Side != -1 {
				t.Fatalf("unexpected side: %+v", tk)
			}
			seen[tk.Symbol]++
		case <-ctx.Done():
			t.Fatalf("timed out waiting for ticks, saw %v", seen)
		}
	}
}

func TestSimSeriesDeterministic(t *testing.T) {
	p := SimParams{Seed: 1234, Interval: time.Second, StartPrice: 50, Volatility: 0.005}
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := SimSeries("SOLUSDT", p, 100, start)
	b := SimSeries("SOLUSDT", p, 100, start)
	if len(a) != 100 || len(b) != 100 {
		t.Fatalf("expected 100 ticks, got %d/%d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("series diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}

	c := SimSeries("SOLUSDT", SimParams{Seed: 4321, Interval: time.Second, StartPrice: 50, Volatility: 0.005}, 100, start)
	same := true
	for i := range a {
		if a[i].Price != c[i].Price {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds should produce different walks")
	}
}

func TestSetSymbolsDedupesAndSorts(t *testing.T) {
	f := NewFeed(ProviderSim, []string{" b ", "a", "b", ""}, zerolog.Nop())
	got := f.snapshotSymbols()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected symbols: %v", got)
	}
}

func TestBinanceFeedRequiresSymbols(t *testing.T) {
	f := NewFeed(ProviderBinance, nil, zerolog.Nop())
	err := f.Run(context.Background(), make(chan signal.Tick))
	if err == nil {
		t.Fatalf("expected error for empty symbol list")
	}
}

func TestParseBinanceSymbol(t *testing.T) {
	if got := parseBinanceSymbol("solusdt@trade"); got != "SOLUSDT" {
		t.Fatalf("unexpected symbol: %s", got)
	}
	if got := parseBinanceSymbol("btcusdt"); got != "BTCUSDT" {
		t.Fatalf("unexpected symbol: %s", got)
	}
}
