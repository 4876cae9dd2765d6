package paper

import (
	"math"
	"testing"

	"kalushael-go/internal/execution"
)

func TestApplyFillBuySellPnL(t *testing.T) {
	account := NewAccount(1000, 1, 0)

	if err := account.ApplyFill("BTCUSDT", execution.Buy, 0.5, 1000, 0); err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}
	if err := account.ApplyFill("BTCUSDT", execution.Buy, 0.25, 1100, 0); err != nil {
		t.Fatalf("unexpected second buy error: %v", err)
	}

	snap := account.Snapshot(map[string]float64{"BTCUSDT": 1150})
	pos := snap.Positions["BTCUSDT"]
	if pos.Qty < 0.74 || pos.Qty > 0.76 {
		t.Fatalf("expected qty ~0.75, got %.4f", pos.Qty)
	}
	if pos.AvgCost <= 0 {
		t.Fatalf("avg cost not tracked")
	}
	if snap.Equity <= 0 {
		t.Fatalf("equity should be positive")
	}

	if err := account.ApplyFill("BTCUSDT", execution.Sell, 0.25, 1200, 0); err != nil {
		t.Fatalf("unexpected sell error: %v", err)
	}
	realized := account.RealizedPnL()
	if realized <= 0 {
		t.Fatalf("expected positive realized pnl got %.2f", realized)
	}

	snap = account.Snapshot(map[string]float64{"BTCUSDT": 1180})
	if math.Abs(snap.Cash+snap.Positions["BTCUSDT"].MarketValue-snap.Equity) > 1e-6 {
		t.Fatalf("equity did not balance")
	}
}

func TestApplyFillFees(t *testing.T) {
	account := NewAccount(1000, 0, 0)
	if err := account.ApplyFill("SOLUSDT", execution.Buy, 1, 100, 1); err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}
	if err := account.ApplyFill("SOLUSDT", execution.Sell, 1, 110, 1.1); err != nil {
		t.Fatalf("unexpected sell error: %v", err)
	}
	snap := account.Snapshot(nil)
	if math.Abs(snap.FeesPaid-2.1) > 1e-9 {
		t.Fatalf("expected fees 2.1, got %.4f", snap.FeesPaid)
	}
	// Realized PnL is fee-exclusive.
	if math.Abs(snap.RealizedPnL-10) > 1e-9 {
		t.Fatalf("expected realized 10, got %.4f", snap.RealizedPnL)
	}
	wantCash := 1000.0 - 100 - 1 + 110 - 1.1
	if math.Abs(snap.Cash-wantCash) > 1e-9 {
		t.Fatalf("expected cash %.2f, got %.4f", wantCash, snap.Cash)
	}
}

func TestApplyFillInsufficientCash(t *testing.T) {
	account := NewAccount(10, 1, 0)
	if err := account.ApplyFill("BTCUSDT", execution.Buy, 0.1, 200, 0); err == nil {
		t.Fatalf("expected cash error")
	}
}

func TestApplyFillPositionLimit(t *testing.T) {
	account := NewAccount(1000, 0.1, 0)
	if err := account.ApplyFill("BTCUSDT", execution.Buy, 0.2, 1000, 0); err == nil {
		t.Fatalf("expected position limit error")
	}
}

func TestApplyFillNotionalLimit(t *testing.T) {
	account := NewAccount(1000, 0, 150)
	if err := account.ApplyFill("SOLUSDT", execution.Buy, 1, 100, 0); err != nil {
		t.Fatalf("first buy within notional cap: %v", err)
	}
	if err := account.ApplyFill("SOLUSDT", execution.Buy, 1, 100, 0); err == nil {
		t.Fatalf("expected position notional limit error")
	}
}

func TestApplyFillInsufficientPosition(t *testing.T) {
	account := NewAccount(1000, 1, 0)
	if err := account.ApplyFill("BTCUSDT", execution.Sell, 0.01, 1000, 0); err == nil {
		t.Fatalf("expected insufficient position error")
	}
}

func TestPortfolioNotional(t *testing.T) {
	account := NewAccount(1000, 0, 0)
	account.ApplyFill("SOLUSDT", execution.Buy, 2, 100, 0)
	account.ApplyFill("BONKUSDT", execution.Buy, 100, 1, 0)
	if got := account.PortfolioNotional(); math.Abs(got-300) > 1e-9 {
		t.Fatalf("expected notional 300, got %.2f", got)
	}
}
