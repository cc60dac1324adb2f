package dashboard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type updateMsg Update

type healthMsg HealthUpdate

type tickMsg time.Time

// controlDoneMsg 控制指令（pause/resume）的回执
type controlDoneMsg struct {
	action string
	err    error
}

type model struct {
	client *Client
	poller *Poller
	prefs  *Prefs

	snapshot  *Snapshot
	lastErr   error
	fetchedAt time.Time
	health    *HealthInfo

	timezones []string
	tzIndex   int
	loc       *time.Location

	theme Theme

	// 最近一次控制指令的提示文本
	notice string

	width  int
	height int
}

func newModel(client *Client, poller *Poller, prefs *Prefs, timezones []string, themeName string) model {
	if len(timezones) == 0 {
		timezones = []string{"UTC"}
	}

	m := model{
		client:    client,
		poller:    poller,
		prefs:     prefs,
		timezones: timezones,
		loc:       time.UTC,
		theme:     themeByName(themeName),
	}

	// 恢复上次选的时区和主题
	if saved := prefs.Timezone(); saved != "" {
		for i, tz := range timezones {
			if tz == saved {
				m.tzIndex = i
				break
			}
		}
	}
	if saved := prefs.Theme(); saved != "" {
		m.theme = themeByName(saved)
	}
	if loc, err := time.LoadLocation(m.timezones[m.tzIndex]); err == nil {
		m.loc = loc
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForUpdate(),
		m.waitForHealth(),
		m.tick(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case updateMsg:
		if msg.Err != nil {
			// 这一轮失败，留着上一帧数据，只记错误
			m.lastErr = msg.Err
		} else {
			m.lastErr = nil
			m.snapshot = msg.Snapshot
			m.fetchedAt = msg.FetchedAt
		}
		return m, m.waitForUpdate()
	case healthMsg:
		if msg.Info != nil {
			m.health = msg.Info
		}
		return m, m.waitForHealth()
	case controlDoneMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		} else {
			m.notice = fmt.Sprintf("%s requested", msg.action)
		}
		return m, nil
	case tickMsg:
		return m, m.tick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		// Bubble Tea 拦截 Ctrl+C，外层收不到 SIGINT。
		// 主动给自己补一个，让主程序走统一的退出链路。
		_ = syscall.Kill(os.Getpid(), syscall.SIGINT)
		return m, tea.Quit
	case "p":
		return m, m.control("pause", m.client.Pause)
	case "r":
		return m, m.control("resume", m.client.Resume)
	case "g":
		m.poller.RefreshNow()
		m.notice = "refreshing"
		return m, nil
	case "t":
		if m.theme.Name == "dark" {
			m.theme = lightTheme()
		} else {
			m.theme = darkTheme()
		}
		m.prefs.SetTheme(m.theme.Name)
		return m, nil
	case "z":
		m.tzIndex = (m.tzIndex + 1) % len(m.timezones)
		if loc, err := time.LoadLocation(m.timezones[m.tzIndex]); err == nil {
			m.loc = loc
		}
		m.prefs.SetTimezone(m.timezones[m.tzIndex])
		return m, nil
	}
	return m, nil
}

// control 发控制指令，回执到了再提示；本地状态不动，等下一轮快照说话
func (m model) control(action string, fn func(context.Context) error) tea.Cmd {
	poller := m.poller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := fn(ctx)
		if err == nil {
			poller.RefreshNow()
		}
		return controlDoneMsg{action: action, err: err}
	}
}

func (m model) View() string {
	if m.snapshot == nil {
		waiting := "等待数据..."
		if m.lastErr != nil {
			waiting = m.theme.Negative.Render(fmt.Sprintf("connect failed: %v", m.lastErr))
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), waiting, m.renderFooter())
	}

	availableWidth := m.width - 4
	if availableWidth < 72 {
		availableWidth = 72
	}
	leftWidth := availableWidth * 3 / 5
	rightWidth := availableWidth - leftWidth - 2

	left := m.theme.Border.Width(leftWidth).Render(m.renderTrades(leftWidth))
	right := m.theme.Border.Width(rightWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.renderEquity(rightWidth),
			"",
			m.renderBackend(),
		))

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), content, m.renderFooter())
}

func (m model) renderHeader() string {
	badge := m.theme.Stopped.Render("STOPPED")
	override := ""
	if m.snapshot != nil {
		if StatusRunning(m.snapshot.Status) {
			badge = m.theme.Running.Render("RUNNING")
		} else {
			badge = m.theme.Stopped.Render(Display(m.snapshot.Status))
		}
		if m.snapshot.ManualOverride {
			override = " " + m.theme.Warning.Render("[manual override]")
		}
	}

	updated := Placeholder
	if !m.fetchedAt.IsZero() {
		updated = m.fetchedAt.In(m.loc).Format(displayLayout)
	}
	serverNow := Placeholder
	if m.snapshot != nil && m.snapshot.NowUTC != "" {
		serverNow = m.snapshot.NowUTC
	}

	title := m.theme.Title.Render("Trading Monitor")
	line := fmt.Sprintf("%s  %s%s  %s updated: %s  %s server utc: %s  %s tz: %s",
		title, badge, override,
		m.theme.Label.Render("|"), updated,
		m.theme.Label.Render("|"), serverNow,
		m.theme.Label.Render("|"), m.timezones[m.tzIndex])
	if m.lastErr != nil {
		line += "  " + m.theme.Negative.Render(fmt.Sprintf("(stale: %v)", m.lastErr))
	}
	return line
}

func (m model) renderTrades(width int) string {
	var lines []string
	lines = append(lines, m.theme.Title.Render("Trades"))
	lines = append(lines, strings.Repeat("─", max(width-4, 8)))
	lines = append(lines, m.theme.Label.Render(fmt.Sprintf(
		"%-19s %-10s %-5s %-5s %10s %10s %10s",
		"Time", "Symbol", "Side", "Type", "Price", "Qty", "PnL")))

	trades := m.snapshot.Trades
	if len(trades) == 0 {
		lines = append(lines, m.theme.Dim.Render("no trades yet"))
		return strings.Join(lines, "\n")
	}

	maxRows := m.height - 10
	if maxRows < 5 {
		maxRows = 5
	}
	if len(trades) > maxRows {
		trades = trades[:maxRows]
	}

	for _, t := range trades {
		when := FormatTime(t.When(), m.loc)
		if when == "" {
			when = Placeholder
		}

		side := Display(t.Side)
		switch SideSign(t.Side) {
		case SignPositive:
			side = m.theme.Positive.Render(fmt.Sprintf("%-5s", side))
		case SignNegative:
			side = m.theme.Negative.Render(fmt.Sprintf("%-5s", side))
		default:
			side = fmt.Sprintf("%-5s", side)
		}

		pnl := numCell(t.PnL)
		switch PnLSign(t.PnL) {
		case SignPositive:
			pnl = m.theme.Positive.Render(pnl)
		case SignNegative:
			pnl = m.theme.Negative.Render(pnl)
		}

		lines = append(lines, fmt.Sprintf("%-19s %-10s %s %-5s %s %s %s",
			when,
			Display(t.Symbol),
			side,
			Display(t.Type),
			numCell(t.Price),
			numCell(t.Qty),
			pnl))
	}
	return strings.Join(lines, "\n")
}

// numCell 数值列统一右对齐十格，无值给占位符
func numCell(n Number) string {
	if !n.Valid {
		return fmt.Sprintf("%10s", Placeholder)
	}
	return fmt.Sprintf("%10s", n.Value.StringFixed(2))
}

func (m model) renderEquity(width int) string {
	var lines []string
	lines = append(lines, m.theme.Title.Render("Equity"))
	lines = append(lines, strings.Repeat("─", max(width-4, 8)))

	points := m.snapshot.Equity
	if len(points) == 0 {
		lines = append(lines, m.theme.Dim.Render("no equity data"))
		return strings.Join(lines, "\n")
	}

	chart := sparkline(points, max(width-4, 8))
	lines = append(lines, chart)

	last := points[len(points)-1]
	lastLine := fmt.Sprintf("last: %s", numCell(last.Y))
	if last.T != "" {
		lastLine += "  " + m.theme.Dim.Render(FormatTime(last.T, m.loc))
	}
	lines = append(lines, lastLine)
	lines = append(lines, m.theme.Dim.Render(fmt.Sprintf("%d points", len(points))))
	return strings.Join(lines, "\n")
}

func (m model) renderBackend() string {
	var lines []string
	lines = append(lines, m.theme.Title.Render("Backend"))
	if m.health == nil {
		lines = append(lines, m.theme.Dim.Render(Placeholder))
		return strings.Join(lines, "\n")
	}
	if m.health.LogDir != "" {
		lines = append(lines, fmt.Sprintf("%s %s", m.theme.Label.Render("logs:"), m.health.LogDir))
	}
	if m.health.DBPath != "" {
		lines = append(lines, fmt.Sprintf("%s %s", m.theme.Label.Render("db:"), m.health.DBPath))
	}
	if m.health.Uptime != "" {
		lines = append(lines, fmt.Sprintf("%s %s", m.theme.Label.Render("uptime:"), m.health.Uptime))
	}
	return strings.Join(lines, "\n")
}

func (m model) renderFooter() string {
	help := fmt.Sprintf("%s pause  %s resume  %s refresh  %s theme(%s)  %s timezone  %s quit",
		m.theme.Key.Render("p"),
		m.theme.Key.Render("r"),
		m.theme.Key.Render("g"),
		m.theme.Key.Render("t"), m.theme.Name,
		m.theme.Key.Render("z"),
		m.theme.Key.Render("q"))
	line := help + "  " + m.theme.Dim.Render("csv: "+m.client.ExportURL())
	if m.notice != "" {
		line += "  " + m.theme.Warning.Render(m.notice)
	}
	return line
}

func (m model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		u := <-m.poller.Updates()
		return updateMsg(u)
	}
}

func (m model) waitForHealth() tea.Cmd {
	return func() tea.Msg {
		h := <-m.poller.HealthUpdates()
		return healthMsg(h)
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
