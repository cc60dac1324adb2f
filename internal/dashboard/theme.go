package dashboard

import "github.com/charmbracelet/lipgloss"

// Theme 一套配色，dark/light 两档，t 键切换
type Theme struct {
	Name string

	Title    lipgloss.Style
	Border   lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Dim      lipgloss.Style
	Positive lipgloss.Style
	Negative lipgloss.Style
	Warning  lipgloss.Style
	Running  lipgloss.Style
	Stopped  lipgloss.Style
	Key      lipgloss.Style
}

func darkTheme() Theme {
	return Theme{
		Name:     "dark",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("39")).Padding(0, 1),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		Running:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		Stopped:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
	}
}

func lightTheme() Theme {
	return Theme{
		Name:     "light",
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("25")).Padding(0, 1),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("247")),
		Positive: lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Negative: lipgloss.NewStyle().Foreground(lipgloss.Color("124")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		Running:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("28")),
		Stopped:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("124")),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
	}
}

// themeByName 未知名字回退 dark
func themeByName(name string) Theme {
	if name == "light" {
		return lightTheme()
	}
	return darkTheme()
}
