package monitor

import (
	"context"
	"fmt"
	"time"
)

func (s *Server) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`
CREATE TABLE IF NOT EXISTS trades (
  id TEXT PRIMARY KEY,
  ts TEXT NOT NULL,
  connector TEXT,
  symbol TEXT,
  side TEXT,
  type TEXT,
  price TEXT,
  qty TEXT,
  pnl TEXT,
  equity TEXT
);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(ts DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol_ts ON trades(symbol, ts DESC);`,
		`
CREATE TABLE IF NOT EXISTS equity_points (
  id TEXT PRIMARY KEY,
  ts TEXT NOT NULL,
  equity TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_equity_points_ts ON equity_points(ts DESC);`,
		`
CREATE TABLE IF NOT EXISTS run_state (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  status TEXT NOT NULL,
  manual_override INTEGER NOT NULL DEFAULT 0,
  updated_at TEXT NOT NULL
);`,
		`INSERT OR IGNORE INTO run_state (id, status, manual_override, updated_at)
VALUES (1, 'RUNNING', 0, strftime('%Y-%m-%dT%H:%M:%fZ','now'));`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w (stmt: %.60s)", err, stmt)
		}
	}
	return nil
}
