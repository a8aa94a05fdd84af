package components

import (
	"strconv"

	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom status bar shows on its right side.
type StatusInfo struct {
	Month       string
	Revision    int64
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	Err         string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)

	left := base.Render(" [?]help  [r]efresh  [q]uit")

	var right string
	switch {
	case info.Err != "":
		right = warn.Render(info.Err + " ")
	case info.Refreshing:
		right = accent.Render("refreshing… ")
	default:
		if info.Month != "" {
			right += accent.Render(info.Month) + base.Render("  ")
		}
		if info.Revision > 0 {
			right += base.Render("rev ") + base.Render(strconv.FormatInt(info.Revision, 10)) + base.Render("  ")
		}
		if info.DataAge != "" {
			right += base.Render("loaded " + info.DataAge + "  ")
		}
		if info.AutoRefresh {
			right += accent.Render("●") + base.Render(" auto ")
		} else {
			right += base.Render("○ manual ")
		}
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return left + gap + right
}
