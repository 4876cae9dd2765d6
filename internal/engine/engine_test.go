package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalushael-go/internal/config"
	"kalushael-go/internal/signal"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	var cfg config.Config
	require.NoError(t, defaults.Set(&cfg))

	dir := t.TempDir()
	cfg.Feed.Symbols = []string{"SOLUSDT"}
	cfg.Paper.MaxLatencyMs = 0
	cfg.Journal.Path = filepath.Join(dir, "journal.db")
	cfg.Mind.CorpusPath = filepath.Join(dir, "corpus.jsonl")
	cfg.Mind.MemoryPath = filepath.Join(dir, "memory.db")
	return &cfg
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func buySignal(score float64) signal.Signal {
	return signal.Signal{Symbol: "SOLUSDT", Score: score, Strategy: "test", Ts: time.Now().UTC()}
}

func TestSignalBuysThenSells(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	e.onSignal(ctx, buySignal(1), 100)
	require.Greater(t, e.account.Position("SOLUSDT"), 0.0, "buy signal should open a position")

	orders, fills := e.exec.Stats()
	assert.Equal(t, 1, orders)
	assert.GreaterOrEqual(t, fills, 1)

	e.onSignal(ctx, buySignal(-1), 100)
	assert.Equal(t, 0.0, e.account.Position("SOLUSDT"), "sell signal should flatten")

	recent, err := e.jnl.RecentFills(10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(recent), 2, "both fills must be journaled")
}

func TestSizeIntentCapsAtPerTradeLimit(t *testing.T) {
	e := newEngine(t)

	intent, ok := e.sizeIntent(buySignal(1), 100)
	require.True(t, ok)
	// Per-trade cap is 50 with a 1% headroom shave.
	assert.InDelta(t, 49.5, intent.Notional, 1e-9)

	_, ok = e.sizeIntent(buySignal(-1), 100)
	assert.False(t, ok, "sell with no position should not produce an intent")

	_, ok = e.sizeIntent(buySignal(0), 100)
	assert.False(t, ok)

	_, ok = e.sizeIntent(buySignal(1), 0)
	assert.False(t, ok)
}

func TestEmergencyStopBlocksOrders(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	e.SetEmergencyStop(true)
	e.onSignal(ctx, buySignal(1), 100)
	orders, _ := e.exec.Stats()
	assert.Equal(t, 0, orders, "stopped engine must not place orders")
	assert.True(t, e.Status().Halted)

	e.SetEmergencyStop(false)
	e.onSignal(ctx, buySignal(1), 100)
	orders, _ = e.exec.Stats()
	assert.Equal(t, 1, orders)
}

func TestSampleEquityWritesJournal(t *testing.T) {
	e := newEngine(t)

	e.sampleEquity()
	curve, err := e.EquityCurve(time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.InDelta(t, 1000, curve[0].Equity, 1e-9)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Feed.Sim.IntervalMs = 1
	e, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer e.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))

	assert.Greater(t, e.ticks.Load(), int64(0), "sim feed should have delivered ticks")
	st := e.Status()
	assert.Equal(t, "paper", st.Mode)
	assert.Greater(t, st.Ticks, int64(0))
}

func TestExecuteClassifiesAndRemembers(t *testing.T) {
	e := newEngine(t)

	reply, err := e.Execute("what is my account balance")
	require.NoError(t, err)
	assert.Equal(t, "status", reply.Intent)
	assert.Contains(t, reply.Reply, "cash")

	reply, err = e.Execute("tell me about my account again")
	require.NoError(t, err)
	require.NotEmpty(t, reply.Recalled, "earlier exchange should be recalled")
	assert.Contains(t, reply.Recalled[0], "account balance")
}

func TestExecuteRiskAndTradesIntents(t *testing.T) {
	e := newEngine(t)

	reply, err := e.Execute("show me the risk limits and drawdown")
	require.NoError(t, err)
	assert.Equal(t, "risk", reply.Intent)
	assert.Contains(t, reply.Reply, "kill switch")

	reply, err = e.Execute("any recent trades or fills")
	require.NoError(t, err)
	assert.Equal(t, "trades", reply.Intent)
	assert.Equal(t, "no fills yet", reply.Reply)
}
