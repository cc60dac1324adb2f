package monitor

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// snapshotPayload /data 的响应体。字段名与 TUI、网页端共用一套约定。
type snapshotPayload struct {
	Status         string          `json:"status"`
	ManualOverride bool            `json:"manual_override"`
	NowUTC         string          `json:"now_utc"`
	Trades         []tradePayload  `json:"trades"`
	Equity         []equityPayload `json:"equity"`
}

type tradePayload struct {
	Time      string `json:"time"`
	Connector string `json:"connector,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Side      string `json:"side,omitempty"`
	Type      string `json:"type,omitempty"`
	Price     any    `json:"price,omitempty"`
	Qty       any    `json:"qty,omitempty"`
	PnL       any    `json:"pnl,omitempty"`
	Equity    any    `json:"equity,omitempty"`
}

type equityPayload struct {
	T string `json:"t"`
	Y any    `json:"y"`
}

// buildSnapshot 组装快照，同参数请求在 TTL 内直接吃缓存
func (s *Server) buildSnapshot(ctx context.Context, f TradeFilter) (*snapshotPayload, error) {
	key := snapshotCacheKey(f)
	if snap, ok := s.snapCache.Get(key); ok {
		return snap, nil
	}

	state, err := s.getRunState(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := s.listTrades(ctx, f)
	if err != nil {
		return nil, err
	}
	equity, err := s.listEquity(ctx, s.cfg.EquityLimit)
	if err != nil {
		return nil, err
	}

	snap := &snapshotPayload{
		Status:         state.Status,
		ManualOverride: state.ManualOverride,
		NowUTC:         time.Now().UTC().Format(time.RFC3339),
		Trades:         make([]tradePayload, 0, len(trades)),
		Equity:         make([]equityPayload, 0, len(equity)),
	}
	for _, t := range trades {
		snap.Trades = append(snap.Trades, tradePayload{
			Time:      t.TS.UTC().Format(time.RFC3339),
			Connector: t.Connector,
			Symbol:    t.Symbol,
			Side:      t.Side,
			Type:      t.Type,
			Price:     jsonNumber(t.Price.String(), t.PriceOK),
			Qty:       jsonNumber(t.Qty.String(), t.QtyOK),
			PnL:       jsonNumber(t.PnL.String(), t.PnLOK),
			Equity:    jsonNumber(t.Equity.String(), t.EquityOK),
		})
	}
	for _, p := range equity {
		snap.Equity = append(snap.Equity, equityPayload{
			T: p.TS.UTC().Format(time.RFC3339),
			Y: jsonNumber(p.Equity.String(), true),
		})
	}

	s.snapCache.Set(key, snap, 0)
	return snap, nil
}

// jsonNumber 数值原样以字符串下发，客户端按十进制解析；无值输出 null
func jsonNumber(v string, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// snapshotCacheKey 规范化过滤参数做键（Encode 输出按键名排序）
func snapshotCacheKey(f TradeFilter) string {
	v := url.Values{}
	if f.Symbol != "" {
		v.Set("symbol", f.Symbol)
	}
	if f.Side != "" {
		v.Set("side", strings.ToUpper(f.Side))
	}
	if f.Start != "" {
		v.Set("start", f.Start)
	}
	if f.End != "" {
		v.Set("end", f.End)
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v.Encode()
}
