package monitor

import (
	"context"
	"fmt"
	"time"
)

// RunState bot 的运行状态行，单行表，id 恒为 1。
// manual_override 表示当前状态是人工通过 /pause /resume 改的。
type RunState struct {
	Status         string    `json:"status"`
	ManualOverride bool      `json:"manual_override"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const (
	StatusRunning = "RUNNING"
	StatusPaused  = "PAUSED"
)

func (s *Server) getRunState(ctx context.Context) (RunState, error) {
	row := s.db.QueryRowContext(ctx, `SELECT status, manual_override, updated_at FROM run_state WHERE id = 1`)
	var (
		st       RunState
		override int
		updated  string
	)
	if err := row.Scan(&st.Status, &override, &updated); err != nil {
		return RunState{}, fmt.Errorf("get run state: %w", err)
	}
	st.ManualOverride = override != 0
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return st, nil
}

func (s *Server) setRunState(ctx context.Context, status string, manualOverride bool) error {
	override := 0
	if manualOverride {
		override = 1
	}
	_, err := s.db.ExecContext(ctx, `
UPDATE run_state SET status = ?, manual_override = ?, updated_at = ? WHERE id = 1
`, status, override, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set run state: %w", err)
	}
	return nil
}
