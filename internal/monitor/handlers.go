package monitor

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tradebot/gomon/internal/metrics"
)

func filterFromQuery(r *http.Request) TradeFilter {
	q := r.URL.Query()
	f := TradeFilter{
		Symbol: strings.TrimSpace(q.Get("symbol")),
		Side:   strings.TrimSpace(q.Get("side")),
		Start:  strings.TrimSpace(q.Get("start")),
		End:    strings.TrimSpace(q.Get("end")),
	}
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 2000 {
			f.Limit = n
		}
	}
	return f
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	metrics.DataRequests.Add(1)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	snap, err := s.buildSnapshot(ctx, filterFromQuery(r))
	if err != nil {
		metrics.DataErrors.Add(1)
		writeError(w, 500, fmt.Sprintf("build snapshot: %v", err))
		return
	}
	writeJSON(w, 200, snap)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{
		"status":  "ok",
		"log_dir": s.cfg.LogDir,
		"db_path": s.cfg.DBPath,
		"uptime":  time.Since(s.startedAt).Truncate(time.Second).String(),
	})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	s.handleControl(w, r, StatusPaused)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	s.handleControl(w, r, StatusRunning)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request, status string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.setRunState(ctx, status, true); err != nil {
		writeError(w, 500, fmt.Sprintf("set run state: %v", err))
		return
	}
	metrics.ControlFlips.Add(1)
	// 状态变了，别让接下来的 /data 再吃旧缓存
	s.snapCache.Clear()

	state, err := s.getRunState(ctx)
	if err != nil {
		writeError(w, 500, fmt.Sprintf("get run state: %v", err))
		return
	}
	writeJSON(w, 200, state)
}
