package journal

const schema = `
CREATE TABLE IF NOT EXISTS fills (
	order_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	qty REAL NOT NULL,
	price REAL NOT NULL,
	fee REAL NOT NULL,
	partial INTEGER NOT NULL DEFAULT 0,
	ts DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_ts ON fills(ts);
CREATE INDEX IF NOT EXISTS idx_fills_symbol ON fills(symbol);

CREATE TABLE IF NOT EXISTS equity (
	ts DATETIME NOT NULL,
	cash REAL NOT NULL,
	equity REAL NOT NULL,
	realized_pnl REAL NOT NULL,
	fees_paid REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_ts ON equity(ts);

CREATE TABLE IF NOT EXISTS signals (
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	score REAL NOT NULL,
	reason TEXT NOT NULL,
	ts DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(ts);
`
