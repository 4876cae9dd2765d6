package journal

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"kalushael-go/internal/execution"
	"kalushael-go/internal/signal"
)

// SQLiteJournal implements Journal on a single SQLite file.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens (creating directories as needed) the journal database and
// applies the schema.
func NewSQLite(path string) (*SQLiteJournal, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f execution.Fill) error {
	_, err := j.db.Exec(`
		INSERT INTO fills (order_id, symbol, side, qty, price, fee, partial, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OrderID, f.Symbol, string(f.Side), f.Qty, f.Price, f.Fee, boolToInt(f.Partial), f.Ts.UTC(),
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (ts, cash, equity, realized_pnl, fees_paid)
		VALUES (?, ?, ?, ?, ?)`,
		e.Ts.UTC(), e.Cash, e.Equity, e.RealizedPnL, e.FeesPaid,
	)
	return err
}

func (j *SQLiteJournal) RecordSignal(s signal.Signal) error {
	_, err := j.db.Exec(`
		INSERT INTO signals (symbol, strategy, score, reason, ts)
		VALUES (?, ?, ?, ?, ?)`,
		s.Symbol, s.Strategy, s.Score, s.Reason, s.Ts.UTC(),
	)
	return err
}

// RecentFills returns up to limit fills, newest first.
func (j *SQLiteJournal) RecentFills(limit int) ([]execution.Fill, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := j.db.Query(`
		SELECT order_id, symbol, side, qty, price, fee, partial, ts
		FROM fills ORDER BY ts DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []execution.Fill
	for rows.Next() {
		var f execution.Fill
		var side string
		var partial int
		if err := rows.Scan(&f.OrderID, &f.Symbol, &side, &f.Qty, &f.Price, &f.Fee, &partial, &f.Ts); err != nil {
			return nil, err
		}
		f.Side = execution.Side(side)
		f.Partial = partial != 0
		out = append(out, f)
	}
	return out, rows.Err()
}

// EquityCurve returns snapshots at or after since, oldest first.
func (j *SQLiteJournal) EquityCurve(since time.Time) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT ts, cash, equity, realized_pnl, fees_paid
		FROM equity WHERE ts >= ? ORDER BY ts ASC`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.Ts, &e.Cash, &e.Equity, &e.RealizedPnL, &e.FeesPaid); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PnLBySymbol aggregates recorded fills into net cash flow per symbol.
func (j *SQLiteJournal) PnLBySymbol() ([]SymbolPnL, error) {
	rows, err := j.db.Query(`
		SELECT symbol,
			SUM(CASE WHEN side = 'BUY' THEN qty ELSE 0 END),
			SUM(CASE WHEN side = 'SELL' THEN qty ELSE 0 END),
			SUM(CASE WHEN side = 'SELL' THEN qty*price ELSE -qty*price END) - SUM(fee),
			COUNT(*)
		FROM fills GROUP BY symbol ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SymbolPnL
	for rows.Next() {
		var p SymbolPnL
		if err := rows.Scan(&p.Symbol, &p.BuyQty, &p.SellQty, &p.NetCash, &p.Fills); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
