package dashboard

import (
	"context"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/tradebot/gomon/pkg/config"
)

var log = logrus.WithField("module", "dashboard")

// Run 启动仪表板，阻塞到退出（按键 q 或 ctx 取消）。
// 进入 TUI 前把 logrus 全量转到文件，终端只留给界面。
func Run(ctx context.Context, cfg *config.DashboardConfig) error {
	if cfg == nil {
		return errors.New("nil dashboard config")
	}

	redirectLogsToFile()

	prefs, err := OpenPrefs(cfg.PrefsDir)
	if err != nil {
		// 偏好库打不开就无持久化运行
		log.Warnf("打开偏好库失败，偏好不会保存: %v", err)
		prefs = &Prefs{}
	}
	defer prefs.Close()

	client := NewClient(cfg.BaseURL, cfg.Query)
	poller := NewPoller(client, cfg.PollInterval())

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	poller.Start(pollCtx)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("stdout is not a terminal")
	}

	m := newModel(client, poller, prefs, cfg.Timezones, cfg.Theme)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, runErr := program.Run()
	cancel()
	poller.Wait()
	if runErr != nil && ctx.Err() == nil {
		return errors.Wrap(runErr, "run dashboard ui")
	}
	return nil
}

// redirectLogsToFile 把全局 logrus 输出改到文件，stdout 被 TUI 独占
func redirectLogsToFile() {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logDir = os.TempDir()
	}
	logFile := filepath.Join(logDir, "dashboard.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return
	}
	logrus.SetOutput(file)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
}
