package monitor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord 一条成交记录。数值列以十进制原文存储，避免浮点损耗。
type TradeRecord struct {
	ID        string          `json:"-"`
	TS        time.Time       `json:"-"`
	Connector string          `json:"connector,omitempty"`
	Symbol    string          `json:"symbol,omitempty"`
	Side      string          `json:"side,omitempty"`
	Type      string          `json:"type,omitempty"`
	Price     decimal.Decimal `json:"-"`
	Qty       decimal.Decimal `json:"-"`
	PnL       decimal.Decimal `json:"-"`
	Equity    decimal.Decimal `json:"-"`

	PriceOK  bool `json:"-"`
	QtyOK    bool `json:"-"`
	PnLOK    bool `json:"-"`
	EquityOK bool `json:"-"`
}

// TradeFilter /data、导出接口共用的过滤条件
type TradeFilter struct {
	Symbol string
	Side   string
	Start  string // 含，RFC3339 或 "2006-01-02"
	End    string // 含
	Limit  int
}

func (s *Server) insertTrade(ctx context.Context, t TradeRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO trades (id, ts, connector, symbol, side, type, price, qty, pnl, equity)
VALUES (?,?,?,?,?,?,?,?,?,?)
`, t.ID, t.TS.UTC().Format(time.RFC3339Nano), t.Connector, t.Symbol, t.Side, t.Type,
		decimalOrNull(t.Price, t.PriceOK), decimalOrNull(t.Qty, t.QtyOK),
		decimalOrNull(t.PnL, t.PnLOK), decimalOrNull(t.Equity, t.EquityOK))
	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

func (s *Server) listTrades(ctx context.Context, f TradeFilter) ([]TradeRecord, error) {
	if f.Limit <= 0 || f.Limit > 2000 {
		f.Limit = s.cfg.TradesLimit
	}

	var (
		conds []string
		args  []any
	)
	if v := strings.TrimSpace(f.Symbol); v != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, v)
	}
	if v := strings.TrimSpace(f.Side); v != "" {
		conds = append(conds, "UPPER(side) = UPPER(?)")
		args = append(args, v)
	}
	if v, ok := normalizeBound(f.Start, false); ok {
		conds = append(conds, "ts >= ?")
		args = append(args, v)
	}
	if v, ok := normalizeBound(f.End, true); ok {
		conds = append(conds, "ts <= ?")
		args = append(args, v)
	}

	query := `SELECT id, ts, connector, symbol, side, type, price, qty, pnl, equity FROM trades`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts DESC LIMIT ?"
	args = append(args, f.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var (
			t                       TradeRecord
			ts                      string
			conn, sym, side, typ    sql.NullString
			price, qty, pnl, equity sql.NullString
		)
		if err := rows.Scan(&t.ID, &ts, &conn, &sym, &side, &typ, &price, &qty, &pnl, &equity); err != nil {
			return nil, err
		}
		t.TS, _ = time.Parse(time.RFC3339Nano, ts)
		t.Connector = conn.String
		t.Symbol = sym.String
		t.Side = side.String
		t.Type = typ.String
		t.Price, t.PriceOK = scanDecimal(price)
		t.Qty, t.QtyOK = scanDecimal(qty)
		t.PnL, t.PnLOK = scanDecimal(pnl)
		t.Equity, t.EquityOK = scanDecimal(equity)
		out = append(out, t)
	}
	return out, rows.Err()
}

func decimalOrNull(d decimal.Decimal, ok bool) any {
	if !ok {
		return nil
	}
	return d.String()
}

func scanDecimal(v sql.NullString) (decimal.Decimal, bool) {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// normalizeBound 把过滤边界统一到 RFC3339Nano 的字典序区间上。
// 纯日期的 end 边界补到当天最后一刻，保证"含端点"。
func normalizeBound(v string, isEnd bool) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC().Format(time.RFC3339Nano), true
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", v, time.UTC); err == nil {
		if isEnd {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t.UTC().Format(time.RFC3339Nano), true
	}
	return "", false
}
