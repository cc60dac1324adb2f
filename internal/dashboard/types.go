package dashboard

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number 是一个容错的数值字段：后端对 price/qty/pnl/equity 有时给 JSON 数字、
// 有时给字符串，偶尔为 null 或干脆缺失。解析失败不报错，只把 Valid 置 false，
// 渲染端据此显示占位符并跳过正负着色。
type Number struct {
	Value decimal.Decimal
	Valid bool
}

// UnmarshalJSON 接受 JSON number、数字字符串、null；其它一律视为无值
func (n *Number) UnmarshalJSON(data []byte) error {
	n.Valid = false
	n.Value = decimal.Zero

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil
		}
		n.Value = d
		n.Valid = true
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(trimmed, &d); err != nil {
		return nil
	}
	n.Value = d
	n.Valid = true
	return nil
}

// MarshalJSON 保持对称：无值输出 null
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(n.Value.String()), nil
}

// Num 构造一个有效的 Number（测试和服务端组装用）
func Num(s string) Number {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}
	}
	return Number{Value: d, Valid: true}
}

// TradeRow 单笔成交（只读展示，不做任何身份追踪）
// 时间字段在不同后端版本里键名不一致，全部接住，取值时按固定优先级解析。
type TradeRow struct {
	Time      string `json:"time,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	TS        string `json:"ts,omitempty"`
	Datetime  string `json:"datetime,omitempty"`
	Date      string `json:"date,omitempty"`

	Connector string `json:"connector,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
	Side      string `json:"side,omitempty"`
	Type      string `json:"type,omitempty"`

	Price  Number `json:"price,omitempty"`
	Qty    Number `json:"qty,omitempty"`
	PnL    Number `json:"pnl,omitempty"`
	Equity Number `json:"equity,omitempty"`
}

// When 按固定优先级解析时间字段：time > timestamp > ts > datetime > date。
// 全部为空时返回空串。
func (t TradeRow) When() string {
	for _, v := range []string{t.Time, t.Timestamp, t.TS, t.Datetime, t.Date} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// EquityPoint 净值曲线上的一个点；t 是标签（时间串），y 是净值
type EquityPoint struct {
	T string `json:"t"`
	Y Number `json:"y"`
}

// Snapshot 一次 /data 轮询返回的完整状态。所有字段都是可选的：
// 渲染端必须对缺失字段做占位处理，绝不能因为缺数据而失败。
type Snapshot struct {
	Status         string        `json:"status,omitempty"`
	ManualOverride bool          `json:"manual_override,omitempty"`
	NowUTC         string        `json:"now_utc,omitempty"`
	Trades         []TradeRow    `json:"trades,omitempty"`
	Equity         []EquityPoint `json:"equity,omitempty"`
}

// HealthInfo /health 返回的后端信息
type HealthInfo struct {
	Status  string `json:"status,omitempty"`
	LogDir  string `json:"log_dir,omitempty"`
	DBPath  string `json:"db_path,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}
