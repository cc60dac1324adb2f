package monitor

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tradebot/gomon/internal/metrics"
	"github.com/tradebot/gomon/pkg/persistence"
)

var ingestLog = logrus.WithField("module", "monitor.ingest")

// tradeIDSpace 行内容哈希出确定性 ID，游标丢了重读也不会插重
var tradeIDSpace = uuid.MustParse("7d44cbb0-9c5a-4c57-9a3a-2f3cf0a6d9e1")

// ingestCursor 两个 CSV 各自读到的字节偏移，持久化在 JSON 文件里
type ingestCursor struct {
	TradesOffset int64 `json:"trades_offset"`
	EquityOffset int64 `json:"equity_offset"`
}

// ingestLoop 周期性把 bot 写出的 CSV 增量导入 SQLite
func (s *Server) ingestLoop(ctx context.Context) {
	interval := s.cfg.IngestInterval()
	if interval <= 0 {
		interval = 15 * time.Second
	}

	store := s.persist.NewStore("monitor", "ingest", "cursor")
	var cur ingestCursor
	if err := store.Load(&cur); err != nil && !errors.Is(err, persistence.ErrNotExists) {
		ingestLog.Warnf("读取导入游标失败，从头开始: %v", err)
	}

	run := func() {
		metrics.IngestRuns.Add(1)
		changed := false
		if s.cfg.TradesCSV != "" {
			if n, off := s.ingestTrades(ctx, s.cfg.TradesCSV, cur.TradesOffset); off != cur.TradesOffset {
				cur.TradesOffset = off
				changed = changed || n > 0
			}
		}
		if s.cfg.EquityCSV != "" {
			if n, off := s.ingestEquity(ctx, s.cfg.EquityCSV, cur.EquityOffset); off != cur.EquityOffset {
				cur.EquityOffset = off
				changed = changed || n > 0
			}
		}
		if changed {
			s.snapCache.Clear()
		}
		if err := store.Save(&cur); err != nil {
			ingestLog.Warnf("保存导入游标失败: %v", err)
		}
	}

	run()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

// openTail 打开文件并跳到游标处；文件被轮转截断时回到开头
func openTail(path string, offset int64) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, offset, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, offset, err
	}
	if st.Size() < offset {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, offset, err
	}
	return f, offset, nil
}

func (s *Server) ingestTrades(ctx context.Context, path string, offset int64) (int, int64) {
	f, offset, err := openTail(path, offset)
	if err != nil {
		if !os.IsNotExist(err) {
			metrics.IngestErrors.Add(1)
			ingestLog.Warnf("打开成交 CSV 失败: %v", err)
		}
		return 0, offset
	}
	defer f.Close()

	inserted := 0
	reader := newLineReader(f)
	for {
		line, n, err := reader.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				metrics.IngestErrors.Add(1)
				ingestLog.Warnf("读成交 CSV 失败: %v", err)
			}
			break
		}
		offset += n
		rec, ok := parseTradeLine(line)
		if !ok {
			continue
		}
		if err := s.insertTrade(ctx, rec); err != nil {
			metrics.IngestErrors.Add(1)
			ingestLog.Warnf("写入成交失败: %v", err)
			continue
		}
		inserted++
		metrics.IngestRows.Add(1)
	}
	return inserted, offset
}

func (s *Server) ingestEquity(ctx context.Context, path string, offset int64) (int, int64) {
	f, offset, err := openTail(path, offset)
	if err != nil {
		if !os.IsNotExist(err) {
			metrics.IngestErrors.Add(1)
			ingestLog.Warnf("打开净值 CSV 失败: %v", err)
		}
		return 0, offset
	}
	defer f.Close()

	inserted := 0
	reader := newLineReader(f)
	for {
		line, n, err := reader.next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				metrics.IngestErrors.Add(1)
				ingestLog.Warnf("读净值 CSV 失败: %v", err)
			}
			break
		}
		offset += n
		fields, ok := splitCSVLine(line)
		if !ok || len(fields) < 2 {
			continue
		}
		if strings.EqualFold(fields[0], "time") {
			continue
		}
		ts, ok := parseCSVTime(fields[0])
		if !ok {
			continue
		}
		eq, err := decimal.NewFromString(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		if err := s.insertEquityPoint(ctx, EquityRecord{TS: ts, Equity: eq}); err != nil {
			metrics.IngestErrors.Add(1)
			ingestLog.Warnf("写入净值失败: %v", err)
			continue
		}
		inserted++
		metrics.IngestRows.Add(1)
	}
	return inserted, offset
}

// parseTradeLine bot 的列序：time,connector,symbol,type,side,price,qty,pnl,equity。
// 表头行、列数不足、时间解析失败的行直接跳过。
func parseTradeLine(line string) (TradeRecord, bool) {
	fields, ok := splitCSVLine(line)
	if !ok || len(fields) < 5 {
		return TradeRecord{}, false
	}
	if strings.EqualFold(fields[0], "time") {
		return TradeRecord{}, false
	}
	ts, ok := parseCSVTime(fields[0])
	if !ok {
		return TradeRecord{}, false
	}

	rec := TradeRecord{
		ID:        uuid.NewSHA1(tradeIDSpace, []byte(line)).String(),
		TS:        ts,
		Connector: strings.TrimSpace(fields[1]),
		Symbol:    strings.TrimSpace(fields[2]),
		Type:      strings.TrimSpace(fields[3]),
		Side:      strings.TrimSpace(fields[4]),
	}
	get := func(i int) (decimal.Decimal, bool) {
		if i >= len(fields) {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(strings.TrimSpace(fields[i]))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	rec.Price, rec.PriceOK = get(5)
	rec.Qty, rec.QtyOK = get(6)
	rec.PnL, rec.PnLOK = get(7)
	rec.Equity, rec.EquityOK = get(8)
	return rec, true
}

func splitCSVLine(line string) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, false
	}
	fields, err := csv.NewReader(strings.NewReader(line)).Read()
	if err != nil {
		return nil, false
	}
	return fields, true
}

func parseCSVTime(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
