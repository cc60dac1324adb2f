package monitor

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tradebot/gomon/pkg/config"
)

func TestParseTradeLine(t *testing.T) {
	rec, ok := parseTradeLine("2024-06-01T10:00:00Z,binance,BTCUSDT,ENTER,long,42000.5,0.01,,1000")
	if !ok {
		t.Fatalf("expected parse ok")
	}
	if rec.Symbol != "BTCUSDT" || rec.Type != "ENTER" || rec.Side != "long" {
		t.Fatalf("fields got=%+v", rec)
	}
	if !rec.PriceOK || rec.Price.String() != "42000.5" {
		t.Fatalf("price got=%+v ok=%v", rec.Price, rec.PriceOK)
	}
	if rec.PnLOK {
		t.Fatalf("empty pnl column should be invalid")
	}
	if !rec.EquityOK || rec.Equity.String() != "1000" {
		t.Fatalf("equity got=%+v", rec.Equity)
	}
	if rec.ID == "" {
		t.Fatalf("id missing")
	}

	// 同一行两次解析出同一个 ID（重复导入不插重）
	rec2, _ := parseTradeLine("2024-06-01T10:00:00Z,binance,BTCUSDT,ENTER,long,42000.5,0.01,,1000")
	if rec2.ID != rec.ID {
		t.Fatalf("id not deterministic: %s vs %s", rec.ID, rec2.ID)
	}
}

func TestParseTradeLine_Rejects(t *testing.T) {
	cases := []string{
		"",
		"time,connector,symbol,type,side,price,qty,pnl,equity", // 表头
		"not-a-time,binance,BTCUSDT,ENTER,long",
		"2024-06-01T10:00:00Z,binance",
	}
	for _, line := range cases {
		if _, ok := parseTradeLine(line); ok {
			t.Fatalf("line %q should be rejected", line)
		}
	}
}

func TestNormalizeBound(t *testing.T) {
	if _, ok := normalizeBound("", false); ok {
		t.Fatalf("empty bound should be skipped")
	}
	if _, ok := normalizeBound("garbage", false); ok {
		t.Fatalf("bad bound should be skipped")
	}

	start, ok := normalizeBound("2024-06-01", false)
	if !ok || !strings.HasPrefix(start, "2024-06-01T00:00:00") {
		t.Fatalf("start bound got=%q", start)
	}
	end, ok := normalizeBound("2024-06-01", true)
	if !ok || !strings.HasPrefix(end, "2024-06-01T23:59:59") {
		t.Fatalf("end bound got=%q", end)
	}
}

func TestLineReader_HoldsIncompleteLine(t *testing.T) {
	r := newLineReader(strings.NewReader("a,b,c\nd,e"))
	line, n, err := r.next()
	if err != nil || line != "a,b,c" || n != 6 {
		t.Fatalf("first line got=%q n=%d err=%v", line, n, err)
	}
	// 没有换行的尾巴不交付
	if _, _, err := r.next(); !errors.Is(err, io.EOF) {
		t.Fatalf("incomplete line should yield EOF, got %v", err)
	}
}

func TestIngest_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	tradesCSV := filepath.Join(dir, "trades.csv")
	equityCSV := filepath.Join(dir, "equity_curve.csv")

	writeFile(t, tradesCSV,
		"time,connector,symbol,type,side,price,qty,pnl,equity\n"+
			"2024-06-01T10:00:00Z,binance,BTCUSDT,ENTER,long,42000,0.01,,1000\n"+
			"2024-06-01T11:00:00Z,binance,BTCUSDT,TP1,long,42500,0.01,5,1005\n")
	writeFile(t, equityCSV,
		"time,equity\n2024-06-01T10:00:00Z,1000\n2024-06-01T11:00:00Z,1005\n")

	s, err := New(config.MonitorConfig{
		DBPath:            filepath.Join(dir, "monitor.db"),
		TradesCSV:         tradesCSV,
		EquityCSV:         equityCSV,
		IngestStateDir:    filepath.Join(dir, "state"),
		IngestIntervalSec: 3600,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	// startBackground 里的 ingestLoop 启动即跑一轮，给它一点时间
	deadline := time.Now().Add(3 * time.Second)
	for {
		trades, err := s.listTrades(context.Background(), TradeFilter{})
		if err != nil {
			t.Fatalf("list trades: %v", err)
		}
		if len(trades) == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ingest did not land, got %d trades", len(trades))
		}
		time.Sleep(20 * time.Millisecond)
	}

	equity, err := s.listEquity(context.Background(), 10)
	if err != nil {
		t.Fatalf("list equity: %v", err)
	}
	if len(equity) != 2 {
		t.Fatalf("equity points got=%d want=2", len(equity))
	}
	// 正序返回
	if !equity[0].TS.Before(equity[1].TS) {
		t.Fatalf("equity should be ascending: %v %v", equity[0].TS, equity[1].TS)
	}

	// 游标丢了从头重读，成交和净值都不插重
	if n, _ := s.ingestTrades(context.Background(), tradesCSV, 0); n != 2 {
		t.Fatalf("re-ingest trades got=%d", n)
	}
	if n, _ := s.ingestEquity(context.Background(), equityCSV, 0); n != 2 {
		t.Fatalf("re-ingest equity got=%d", n)
	}
	trades, err := s.listTrades(context.Background(), TradeFilter{})
	if err != nil {
		t.Fatalf("list trades: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("trades duplicated on re-ingest: got=%d want=2", len(trades))
	}
	equity, err = s.listEquity(context.Background(), 10)
	if err != nil {
		t.Fatalf("list equity: %v", err)
	}
	if len(equity) != 2 {
		t.Fatalf("equity duplicated on re-ingest: got=%d want=2", len(equity))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
