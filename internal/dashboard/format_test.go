package dashboard

import (
	"testing"
	"testing/quick"
	"time"
)

func TestFormatTime_ConvertsToZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 2024-06-01 是以色列夏令时（UTC+3）
	got := FormatTime("2024-06-01T12:00:00Z", loc)
	if got != "2024-06-01 15:00:00" {
		t.Fatalf("FormatTime got=%q want=%q", got, "2024-06-01 15:00:00")
	}
}

func TestFormatTime_NaiveTreatedAsUTC(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	// 不带时区后缀按 UTC 解释；2024-01-15 纽约是 UTC-5
	got := FormatTime("2024-01-15T12:00:00", loc)
	if got != "2024-01-15 07:00:00" {
		t.Fatalf("FormatTime got=%q want=%q", got, "2024-01-15 07:00:00")
	}
}

func TestFormatTime_BadInputReturnedRaw(t *testing.T) {
	cases := []string{"not-a-time", "2024/06/01", "みかん"}
	for _, raw := range cases {
		if got := FormatTime(raw, time.UTC); got != raw {
			t.Fatalf("FormatTime(%q) got=%q, want raw input back", raw, got)
		}
	}
	if got := FormatTime("   ", time.UTC); got != "" {
		t.Fatalf("FormatTime(blank) got=%q want empty", got)
	}
}

// 任何可解析的时间，输出都是固定 19 字符宽度，表格列不抖
func TestFormatTime_FixedWidthProperty(t *testing.T) {
	property := func(sec int64) bool {
		if sec < 0 {
			sec = -sec
		}
		// 限制在 1970-2200 左右
		sec = sec % 7258118400
		raw := time.Unix(sec, 0).UTC().Format(time.RFC3339)
		got := FormatTime(raw, time.UTC)
		return len(got) == len(displayLayout)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Fatalf("fixed width property failed: %v", err)
	}
}

func TestStatusRunning_ExactMatchOnly(t *testing.T) {
	if !StatusRunning("RUNNING") {
		t.Fatalf("RUNNING should be running")
	}
	for _, s := range []string{"running", "Running", " RUNNING", "RUNNING ", "PAUSED", "STOPPED", ""} {
		if StatusRunning(s) {
			t.Fatalf("%q should not count as running", s)
		}
	}
}

func TestSideSign(t *testing.T) {
	cases := []struct {
		side string
		want Sign
	}{
		{"BUY", SignPositive},
		{"buy", SignPositive},
		{"LONG", SignPositive},
		{" long ", SignPositive},
		{"SELL", SignNegative},
		{"short", SignNegative},
		{"HOLD", SignNone},
		{"", SignNone},
	}
	for _, c := range cases {
		if got := SideSign(c.side); got != c.want {
			t.Fatalf("SideSign(%q) got=%v want=%v", c.side, got, c.want)
		}
	}
}

func TestPnLSign(t *testing.T) {
	if got := PnLSign(Num("1.5")); got != SignPositive {
		t.Fatalf("positive pnl got=%v", got)
	}
	if got := PnLSign(Num("0")); got != SignPositive {
		t.Fatalf("zero pnl should count positive, got=%v", got)
	}
	if got := PnLSign(Num("-0.01")); got != SignNegative {
		t.Fatalf("negative pnl got=%v", got)
	}
	if got := PnLSign(Number{}); got != SignNone {
		t.Fatalf("missing pnl got=%v", got)
	}
}

func TestDisplay(t *testing.T) {
	if got := Display(""); got != Placeholder {
		t.Fatalf("empty got=%q", got)
	}
	if got := Display("  "); got != Placeholder {
		t.Fatalf("blank got=%q", got)
	}
	if got := Display("BTCUSDT"); got != "BTCUSDT" {
		t.Fatalf("value got=%q", got)
	}
}
