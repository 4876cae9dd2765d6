package strategy

import (
	"testing"
	"time"

	"kalushael-go/internal/signal"
)

func TestMomentumEmitsOnBreakout(t *testing.T) {
	strat := NewMomentum(0.05, 60, 0)
	base := time.Now()

	if s := strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 100, Size: 1, Ts: base}); s != nil {
		t.Fatalf("first tick should not signal")
	}
	s := strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 110, Size: 1, Ts: base.Add(10 * time.Second)})
	if s == nil {
		t.Fatalf("expected signal on 10%% move")
	}
	if s.Score <= 0 {
		t.Fatalf("expected positive score, got %.3f", s.Score)
	}
	if s.Strategy != "Momentum" {
		t.Fatalf("unexpected strategy name: %s", s.Strategy)
	}
}

func TestMomentumRespectsVolumeFloor(t *testing.T) {
	strat := NewMomentum(0.05, 60, 10_000)
	base := time.Now()
	strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 100, Size: 0.1, Ts: base})
	if s := strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 112, Size: 0.1, Ts: base.Add(time.Second)}); s != nil {
		t.Fatalf("expected volume floor to suppress signal, got %+v", s)
	}
}

func TestMomentumQuietMarket(t *testing.T) {
	strat := NewMomentum(0.05, 60, 0)
	base := time.Now()
	strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 100, Size: 1, Ts: base})
	if s := strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 100.5, Size: 1, Ts: base.Add(time.Second)}); s != nil {
		t.Fatalf("0.5%% move should stay under 5%% threshold, got %+v", s)
	}
}

func TestMomentumWindowEviction(t *testing.T) {
	strat := NewMomentum(0.05, 30, 0)
	base := time.Now()
	strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 100, Size: 1, Ts: base})
	// Arrives after the window: the old anchor is evicted so the move is measured from here.
	if s := strat.OnTick(signal.Tick{Symbol: "SOLUSDT", Price: 110, Size: 1, Ts: base.Add(2 * time.Minute)}); s != nil {
		t.Fatalf("stale anchor should be evicted, got %+v", s)
	}
}

func TestBuildFactory(t *testing.T) {
	cases := map[string]string{
		"":          "Momentum",
		"momentum":  "Momentum",
		"rsi":       "RSIReversion",
		"RSI_Reversion": "RSIReversion",
		"macd":      "MACDCross",
		"macd_cross": "MACDCross",
		"nonsense":  "Momentum",
	}
	for mode, want := range cases {
		if got := Build(mode, Params{}).Name(); got != want {
			t.Fatalf("Build(%q) = %s, want %s", mode, got, want)
		}
	}
}
