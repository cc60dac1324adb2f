package dashboard

import (
	"encoding/json"
	"testing"
)

func TestNumber_UnmarshalTolerant(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		want  string
	}{
		{`1.25`, true, "1.25"},
		{`"1.25"`, true, "1.25"},
		{`"-300"`, true, "-300"},
		{`0`, true, "0"},
		{`null`, false, ""},
		{`""`, false, ""},
		{`"abc"`, false, ""},
		{`true`, false, ""},
		{`[1]`, false, ""},
	}
	for _, c := range cases {
		var n Number
		if err := json.Unmarshal([]byte(c.in), &n); err != nil {
			t.Fatalf("Unmarshal(%s) unexpected error: %v", c.in, err)
		}
		if n.Valid != c.valid {
			t.Fatalf("Unmarshal(%s) valid got=%v want=%v", c.in, n.Valid, c.valid)
		}
		if c.valid && n.Value.String() != c.want {
			t.Fatalf("Unmarshal(%s) value got=%s want=%s", c.in, n.Value.String(), c.want)
		}
	}
}

func TestTradeRow_WhenPrecedence(t *testing.T) {
	row := TradeRow{
		Timestamp: "b",
		TS:        "c",
		Datetime:  "d",
		Date:      "e",
	}
	if got := row.When(); got != "b" {
		t.Fatalf("When got=%q want=b", got)
	}
	row.Time = "a"
	if got := row.When(); got != "a" {
		t.Fatalf("When got=%q want=a", got)
	}
	row = TradeRow{Date: "e"}
	if got := row.When(); got != "e" {
		t.Fatalf("When got=%q want=e", got)
	}
	if got := (TradeRow{}).When(); got != "" {
		t.Fatalf("When on empty row got=%q", got)
	}
}

// 后端字段随便缺、数值字符串混用，解析都不能失败
func TestSnapshot_DefensiveDecode(t *testing.T) {
	raw := `{
		"status": "RUNNING",
		"trades": [
			{"timestamp": "2024-06-01T12:00:00Z", "symbol": "BTCUSDT", "side": "BUY", "price": "42000.5", "pnl": 3},
			{"symbol": "ETHUSDT"},
			{}
		],
		"equity": [{"t": "2024-06-01T12:00:00Z", "y": "1000"}, {"t": "", "y": null}]
	}`
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Status != "RUNNING" {
		t.Fatalf("status got=%q", snap.Status)
	}
	if len(snap.Trades) != 3 {
		t.Fatalf("trades got=%d want=3", len(snap.Trades))
	}
	first := snap.Trades[0]
	if !first.Price.Valid || first.Price.Value.String() != "42000.5" {
		t.Fatalf("price got=%+v", first.Price)
	}
	if !first.PnL.Valid || first.PnL.Value.String() != "3" {
		t.Fatalf("pnl got=%+v", first.PnL)
	}
	if snap.Trades[1].Price.Valid {
		t.Fatalf("missing price should be invalid")
	}
	if snap.Trades[2].When() != "" {
		t.Fatalf("empty trade should have no time")
	}
	if len(snap.Equity) != 2 {
		t.Fatalf("equity got=%d want=2", len(snap.Equity))
	}
	if snap.Equity[1].Y.Valid {
		t.Fatalf("null equity should be invalid")
	}

	// 完全空对象也要能解
	var empty Snapshot
	if err := json.Unmarshal([]byte(`{}`), &empty); err != nil {
		t.Fatalf("decode empty snapshot: %v", err)
	}
	if empty.Status != "" || len(empty.Trades) != 0 {
		t.Fatalf("empty snapshot got=%+v", empty)
	}
}
