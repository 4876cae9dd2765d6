package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kalushael-go/internal/execution"
	"kalushael-go/internal/signal"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndQueryFills(t *testing.T) {
	j := newTestJournal(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordFill(execution.Fill{
		OrderID: "o1", Symbol: "SOLUSDT", Side: execution.Buy, Qty: 2, Price: 100, Fee: 0.2, Ts: base,
	}))
	require.NoError(t, j.RecordFill(execution.Fill{
		OrderID: "o2", Symbol: "SOLUSDT", Side: execution.Sell, Qty: 1, Price: 110, Fee: 0.11, Partial: true, Ts: base.Add(time.Minute),
	}))

	fills, err := j.RecentFills(10)
	require.NoError(t, err)
	require.Len(t, fills, 2)
	require.Equal(t, "o2", fills[0].OrderID, "newest fill first")
	require.Equal(t, execution.Sell, fills[0].Side)
	require.True(t, fills[0].Partial)
	require.Equal(t, "o1", fills[1].OrderID)

	fills, err = j.RecentFills(1)
	require.NoError(t, err)
	require.Len(t, fills, 1)
}

func TestEquityCurveWindow(t *testing.T) {
	j := newTestJournal(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, j.RecordEquity(EquitySnapshot{
			Ts: base.Add(time.Duration(i) * time.Hour), Cash: 1000, Equity: 1000 + float64(i),
		}))
	}

	curve, err := j.EquityCurve(base.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Len(t, curve, 3)
	require.Equal(t, 1002.0, curve[0].Equity)
	require.True(t, curve[0].Ts.Before(curve[2].Ts), "oldest first")
}

func TestPnLBySymbol(t *testing.T) {
	j := newTestJournal(t)
	now := time.Now()

	require.NoError(t, j.RecordFill(execution.Fill{OrderID: "a", Symbol: "SOLUSDT", Side: execution.Buy, Qty: 2, Price: 100, Fee: 1, Ts: now}))
	require.NoError(t, j.RecordFill(execution.Fill{OrderID: "b", Symbol: "SOLUSDT", Side: execution.Sell, Qty: 2, Price: 110, Fee: 1, Ts: now}))
	require.NoError(t, j.RecordFill(execution.Fill{OrderID: "c", Symbol: "BONKUSDT", Side: execution.Buy, Qty: 10, Price: 1, Fee: 0, Ts: now}))

	pnl, err := j.PnLBySymbol()
	require.NoError(t, err)
	require.Len(t, pnl, 2)

	require.Equal(t, "BONKUSDT", pnl[0].Symbol)
	require.InDelta(t, -10, pnl[0].NetCash, 1e-9)

	require.Equal(t, "SOLUSDT", pnl[1].Symbol)
	require.InDelta(t, 2.0, pnl[1].BuyQty, 1e-9)
	require.InDelta(t, 2.0, pnl[1].SellQty, 1e-9)
	// 220 in - 200 out - 2 fees
	require.InDelta(t, 18, pnl[1].NetCash, 1e-9)
	require.Equal(t, 2, pnl[1].Fills)
}

func TestRecordSignal(t *testing.T) {
	j := newTestJournal(t)
	require.NoError(t, j.RecordSignal(signal.Signal{
		Symbol: "SOLUSDT", Strategy: "Momentum", Score: 0.12, Reason: "Δ=12%", Ts: time.Now(),
	}))
}

func TestSchemaIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "journal.db")
	j1, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, j1.RecordFill(execution.Fill{OrderID: "a", Symbol: "SOLUSDT", Side: execution.Buy, Qty: 1, Price: 1, Ts: time.Now()}))
	require.NoError(t, j1.Close())

	// Reopening the same file must keep existing rows.
	j2, err := NewSQLite(path)
	require.NoError(t, err)
	defer j2.Close()
	fills, err := j2.RecentFills(10)
	require.NoError(t, err)
	require.Len(t, fills, 1)
}
