package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gomon/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	s, err := New(config.MonitorConfig{
		DBPath:            filepath.Join(dir, "monitor.db"),
		LogDir:            filepath.Join(dir, "logs"),
		IngestStateDir:    filepath.Join(dir, "state"),
		IngestIntervalSec: 3600, // 测试期间不让后台导入插手
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustDecimal(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("decimal %q: %v", v, err)
	}
	return d
}

func seedTrade(t *testing.T, s *Server, id, ts, symbol, side, typ, price, pnl string) {
	t.Helper()
	when, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("parse ts: %v", err)
	}
	rec := TradeRecord{
		ID: id, TS: when, Connector: "binance", Symbol: symbol, Side: side, Type: typ,
		Price: mustDecimal(t, price), PriceOK: true,
		Qty: mustDecimal(t, "1"), QtyOK: true,
	}
	if pnl != "" {
		rec.PnL = mustDecimal(t, pnl)
		rec.PnLOK = true
	}
	if err := s.insertTrade(context.Background(), rec); err != nil {
		t.Fatalf("insert trade: %v", err)
	}
}

func getJSON(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode %s response: %v (body=%s)", path, err, rec.Body.String())
		}
	}
	return rec
}

func TestHandleData_EmptyDB(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	var snap snapshotPayload
	rec := getJSON(t, router, "/data", &snap)
	if rec.Code != 200 {
		t.Fatalf("status got=%d", rec.Code)
	}
	if snap.Status != StatusRunning {
		t.Fatalf("fresh db status got=%q want=%q", snap.Status, StatusRunning)
	}
	if snap.ManualOverride {
		t.Fatalf("fresh db should not be manual override")
	}
	// 空库也要给空数组而不是 null
	if snap.Trades == nil || snap.Equity == nil {
		t.Fatalf("trades/equity should be empty arrays, got %s", rec.Body.String())
	}
	if snap.NowUTC == "" {
		t.Fatalf("now_utc missing")
	}
}

func TestHandleData_FiltersAndOrder(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	seedTrade(t, s, "t1", "2024-06-01T10:00:00Z", "BTCUSDT", "BUY", "ENTER", "42000", "")
	seedTrade(t, s, "t2", "2024-06-01T11:00:00Z", "BTCUSDT", "SELL", "TP1", "42500", "12.5")
	seedTrade(t, s, "t3", "2024-06-02T09:00:00Z", "ETHUSDT", "buy", "ENTER", "3000", "")

	var snap snapshotPayload
	getJSON(t, router, "/data?symbol=BTCUSDT", &snap)
	if len(snap.Trades) != 2 {
		t.Fatalf("symbol filter got=%d trades", len(snap.Trades))
	}
	// 最新在前
	if snap.Trades[0].Type != "TP1" {
		t.Fatalf("order: first trade got=%+v", snap.Trades[0])
	}

	snap = snapshotPayload{}
	getJSON(t, router, "/data?side=BUY", &snap)
	if len(snap.Trades) != 2 {
		t.Fatalf("side filter should be case-insensitive, got=%d", len(snap.Trades))
	}

	snap = snapshotPayload{}
	getJSON(t, router, "/data?start=2024-06-02&end=2024-06-02", &snap)
	if len(snap.Trades) != 1 || snap.Trades[0].Symbol != "ETHUSDT" {
		t.Fatalf("date range filter got=%+v", snap.Trades)
	}

	snap = snapshotPayload{}
	getJSON(t, router, "/data?limit=1", &snap)
	if len(snap.Trades) != 1 {
		t.Fatalf("limit got=%d", len(snap.Trades))
	}

	// 无值的 pnl 下发 null
	snap = snapshotPayload{}
	getJSON(t, router, "/data?symbol=ETHUSDT", &snap)
	if snap.Trades[0].PnL != nil {
		t.Fatalf("missing pnl should be null, got=%v", snap.Trades[0].PnL)
	}
}

func TestPauseResume(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	req := httptest.NewRequest(http.MethodPost, "/pause", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("pause status got=%d", rec.Code)
	}

	var snap snapshotPayload
	getJSON(t, router, "/data", &snap)
	if snap.Status != StatusPaused {
		t.Fatalf("after pause status got=%q", snap.Status)
	}
	if !snap.ManualOverride {
		t.Fatalf("after pause manual_override should be true")
	}

	req = httptest.NewRequest(http.MethodPost, "/resume", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("resume status got=%d", rec.Code)
	}

	snap = snapshotPayload{}
	getJSON(t, router, "/data", &snap)
	if snap.Status != StatusRunning {
		t.Fatalf("after resume status got=%q", snap.Status)
	}
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	var h map[string]any
	rec := getJSON(t, s.Router(), "/health", &h)
	if rec.Code != 200 {
		t.Fatalf("health status got=%d", rec.Code)
	}
	if h["status"] != "ok" {
		t.Fatalf("health status field got=%v", h["status"])
	}
	if h["log_dir"] == "" || h["db_path"] == "" {
		t.Fatalf("health missing paths: %v", h)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	seedTrade(t, s, "t1", "2024-06-01T10:00:00Z", "BTCUSDT", "BUY", "ENTER", "42000", "")
	seedTrade(t, s, "t2", "2024-06-01T11:00:00Z", "BTCUSDT", "SELL", "TP1", "42500", "12.5")

	req := httptest.NewRequest(http.MethodGet, "/export/trades.csv?symbol=BTCUSDT", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("export status got=%d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type got=%q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines got=%d body=%q", len(lines), rec.Body.String())
	}
	if lines[0] != "time,connector,symbol,type,side,price,qty,pnl,equity" {
		t.Fatalf("csv header got=%q", lines[0])
	}
	// 导出正序：ENTER 在前
	if !strings.Contains(lines[1], "ENTER") || !strings.Contains(lines[2], "TP1") {
		t.Fatalf("csv order wrong: %v", lines[1:])
	}
	// 无值留空列
	if !strings.Contains(lines[1], ",,") {
		t.Fatalf("missing pnl should be empty cell: %q", lines[1])
	}
}

func TestSnapshotCache(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	var first snapshotPayload
	getJSON(t, router, "/data", &first)

	// 缓存命中期间新插入的数据不可见
	seedTrade(t, s, "t1", "2024-06-01T10:00:00Z", "BTCUSDT", "BUY", "ENTER", "42000", "")
	var second snapshotPayload
	getJSON(t, router, "/data", &second)
	if len(second.Trades) != 0 {
		t.Fatalf("cached snapshot should not see new trade yet")
	}

	// 控制指令清缓存
	req := httptest.NewRequest(http.MethodPost, "/pause", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	var third snapshotPayload
	getJSON(t, router, "/data", &third)
	if len(third.Trades) != 1 {
		t.Fatalf("after cache clear trade should be visible, got=%d", len(third.Trades))
	}
}
