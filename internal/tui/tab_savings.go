package tui

import (
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/tui/components"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderSavingsTab(cw int) string {
	t := theme.Active
	r := a.report
	sp := r.Insights.SavingsProgress
	goals := r.Scoped.SavingsGoals

	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(goals) == 0 {
		return components.ContentCard("Savings Goals",
			dimStyle.Render("No savings goals yet. Add one with `budgetpulse add goal`."), cw)
	}

	summary := []components.Metric{
		{Label: "Saved", Value: cli.FormatMoney(sp.Total, a.currency)},
		{Label: "Target", Value: cli.FormatMoney(sp.Target, a.currency)},
		{Label: "Progress", Value: cli.FormatPercent(sp.Percentage), Tone: t.Accent},
	}
	if sp.Percentage >= 100 {
		summary[2].Tone = t.OK
	}

	innerW := components.CardInnerWidth(cw)
	labelW := 18
	barW := innerW - labelW - 8
	if barW < 10 {
		barW = 10
	}

	now := a.lastRefresh
	var body strings.Builder
	for i, g := range goals {
		if i > 0 {
			body.WriteString("\n")
		}
		pct := 0.0
		if g.TargetAmount.IsPositive() {
			pct = g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		body.WriteString(components.GoalBar(g.Name, pct, labelW, barW))
		body.WriteString("\n")

		detail := cli.FormatMoney(g.CurrentAmount, a.currency) + " of " + cli.FormatMoney(g.TargetAmount, a.currency)
		if left := g.TargetAmount.Sub(g.CurrentAmount); left.IsPositive() {
			detail += " · " + cli.FormatMoney(left, a.currency) + " to go"
		}
		if g.Deadline != nil {
			detail += " · due " + cli.FormatDate(*g.Deadline)
			if !now.IsZero() {
				detail += " (" + cli.FormatDue(*g.Deadline, now) + ")"
			}
		}
		body.WriteString(spaceStyle.Render(strings.Repeat(" ", labelW+1)))
		body.WriteString(mutedStyle.Render(detail))
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(summary, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Savings Goals", body.String(), cw))
	return b.String()
}
