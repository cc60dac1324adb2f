package monitor

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/tradebot/gomon/internal/metrics"
)

var exportHeader = []string{"time", "connector", "symbol", "type", "side", "price", "qty", "pnl", "equity"}

// handleExportTradesCSV 按当前过滤条件导出成交为 CSV，列序与 bot 写出的文件一致
func (s *Server) handleExportTradesCSV(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	f := filterFromQuery(r)
	if f.Limit <= 0 {
		f.Limit = 2000
	}
	trades, err := s.listTrades(ctx, f)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("db list trades: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	// 导出按时间正序，listTrades 给的是倒序
	for i := len(trades) - 1; i >= 0; i-- {
		t := trades[i]
		_ = cw.Write([]string{
			t.TS.UTC().Format(time.RFC3339),
			t.Connector,
			t.Symbol,
			t.Type,
			t.Side,
			csvCell(t.Price.String(), t.PriceOK),
			csvCell(t.Qty.String(), t.QtyOK),
			csvCell(t.PnL.String(), t.PnLOK),
			csvCell(t.Equity.String(), t.EquityOK),
		})
	}
	cw.Flush()
	metrics.ExportedCSVs.Add(1)
}

func csvCell(v string, ok bool) string {
	if !ok {
		return ""
	}
	return v
}
