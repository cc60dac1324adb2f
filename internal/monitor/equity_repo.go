package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// equityIDSpace (ts, equity) 哈希出确定性 ID，游标丢了重读也不会插重
var equityIDSpace = uuid.MustParse("3f9a1c1e-8d2b-4f6a-9c0d-5b7e2a4c6d8f")

type EquityRecord struct {
	TS     time.Time
	Equity decimal.Decimal
}

func (s *Server) insertEquityPoint(ctx context.Context, p EquityRecord) error {
	ts := p.TS.UTC().Format(time.RFC3339Nano)
	eq := p.Equity.String()
	id := uuid.NewSHA1(equityIDSpace, []byte(ts+","+eq)).String()
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO equity_points (id, ts, equity) VALUES (?,?,?)
`, id, ts, eq)
	if err != nil {
		return fmt.Errorf("insert equity point: %w", err)
	}
	return nil
}

// listEquity 取最近 limit 个点，按时间正序返回（画曲线用）
func (s *Server) listEquity(ctx context.Context, limit int) ([]EquityRecord, error) {
	if limit <= 0 || limit > 5000 {
		limit = s.cfg.EquityLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT ts, equity FROM (
  SELECT ts, equity FROM equity_points ORDER BY ts DESC LIMIT ?
) ORDER BY ts ASC
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityRecord
	for rows.Next() {
		var (
			p      EquityRecord
			ts, eq string
		)
		if err := rows.Scan(&ts, &eq); err != nil {
			return nil, err
		}
		p.TS, _ = time.Parse(time.RFC3339Nano, ts)
		p.Equity, _ = decimal.NewFromString(eq)
		out = append(out, p)
	}
	return out, rows.Err()
}
