package integration

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"kalushael-go/internal/execution"
	"kalushael-go/internal/feed"
	"kalushael-go/internal/paper"
	"kalushael-go/internal/risk"
	"kalushael-go/internal/strategy"
)

// Drives the full paper pipeline with a deterministic tick series: feed ->
// strategy -> risk gate -> execution manager -> paper venue -> account.
func TestPaperFlowEndToEnd(t *testing.T) {
	ctx := context.Background()

	params := feed.SimParams{Seed: 7, Interval: time.Second, StartPrice: 100, Volatility: 0.05}
	ticks := feed.SimSeries("SOLUSDT", params, 400, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	strat := strategy.NewMomentum(0.01, 60, 0)
	riskMgr := risk.NewManager(risk.Limits{
		MaxNotionalPerTrade:  50,
		MaxPortfolioNotional: 500,
		MaxDailyLoss:         1000,
		KillSwitchDrawdown:   0.9,
	}, 1000)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	account := paper.NewAccount(1000, 0, 0)
	ledger := paper.NewLedger(64)
	venue := paper.NewVenue(account, paper.VenueParams{SlippageBps: 5, FeeBps: 10, Seed: 7}, ledger)
	exec := execution.NewManager(logger, venue, 0)

	marks := map[string]float64{}
	orders := 0

	for _, tk := range ticks {
		marks[tk.Symbol] = tk.Price
		s := strat.OnTick(tk)
		if s == nil {
			continue
		}

		var intent risk.Intent
		switch {
		case s.Score > 0:
			if account.Position(tk.Symbol) > 0 {
				continue
			}
			qty := 40.0 / tk.Price
			intent = risk.Intent{Symbol: tk.Symbol, Side: string(execution.Buy), Qty: qty, Price: tk.Price, Notional: qty * tk.Price}
		case s.Score < 0:
			qty := account.Position(tk.Symbol)
			if qty <= 0 {
				continue
			}
			intent = risk.Intent{Symbol: tk.Symbol, Side: string(execution.Sell), Qty: qty, Price: tk.Price, Notional: qty * tk.Price}
		default:
			continue
		}

		decision := riskMgr.Check(intent, risk.AccountState{
			Equity:            account.Snapshot(marks).Equity,
			PortfolioNotional: account.PortfolioNotional(),
		})
		if !decision.Allowed {
			continue
		}

		fills, err := exec.Submit(ctx, execution.Order{
			ClientID: execution.NewClientOrderID(),
			Symbol:   intent.Symbol,
			Side:     execution.Side(intent.Side),
			Qty:      intent.Qty,
			Price:    intent.Price,
			Ts:       tk.Ts,
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if len(fills) == 0 {
			t.Fatal("expected at least one fill")
		}
		orders++
	}

	if orders == 0 {
		t.Fatal("expected the momentum strategy to trade on a 5% volatility walk")
	}

	snap := account.Snapshot(marks)
	if snap.Equity <= 0 {
		t.Fatalf("expected positive equity, got %v", snap.Equity)
	}
	if snap.FeesPaid <= 0 {
		t.Fatal("fees should have been charged on fills")
	}
	if !strings.Contains(buf.String(), "submit order") {
		t.Fatal("expected execution manager to log submissions")
	}

	gotOrders, gotFills := exec.Stats()
	if gotOrders != orders || gotFills < orders {
		t.Fatalf("stats = (%d, %d), want (%d, >=%d)", gotOrders, gotFills, orders, orders)
	}
	if recorded := ledger.Snapshot(); len(recorded) != gotFills {
		t.Fatalf("ledger recorded %d fills, manager saw %d", len(recorded), gotFills)
	}
}

// Replaying the same seed twice must produce identical fills.
func TestPaperFlowDeterminism(t *testing.T) {
	run := func() paper.Snapshot {
		params := feed.SimParams{Seed: 11, Interval: time.Second, StartPrice: 100, Volatility: 0.05}
		ticks := feed.SimSeries("SOLUSDT", params, 300, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

		strat := strategy.NewMomentum(0.01, 60, 0)
		account := paper.NewAccount(1000, 0, 0)
		venue := paper.NewVenue(account, paper.VenueParams{SlippageBps: 5, FeeBps: 10, Seed: 11}, nil)
		exec := execution.NewManager(zerolog.Nop(), venue, 0)

		marks := map[string]float64{}
		for _, tk := range ticks {
			marks[tk.Symbol] = tk.Price
			s := strat.OnTick(tk)
			if s == nil {
				continue
			}
			if s.Score > 0 && account.Position(tk.Symbol) == 0 {
				qty := 40.0 / tk.Price
				_, _ = exec.Submit(context.Background(), execution.Order{
					ClientID: execution.NewClientOrderID(),
					Symbol:   tk.Symbol, Side: execution.Buy, Qty: qty, Price: tk.Price, Ts: tk.Ts,
				})
			}
			if s.Score < 0 {
				if qty := account.Position(tk.Symbol); qty > 0 {
					_, _ = exec.Submit(context.Background(), execution.Order{
						ClientID: execution.NewClientOrderID(),
						Symbol:   tk.Symbol, Side: execution.Sell, Qty: qty, Price: tk.Price, Ts: tk.Ts,
					})
				}
			}
		}
		return account.Snapshot(marks)
	}

	a, b := run(), run()
	if a.Cash != b.Cash || a.RealizedPnL != b.RealizedPnL || a.FeesPaid != b.FeesPaid {
		t.Fatalf("runs diverged: %+v vs %+v", a, b)
	}
}
