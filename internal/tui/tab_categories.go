package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/tui/components"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	r := a.report
	cats := r.Insights.Categories

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(cats) == 0 {
		return components.ContentCard("Categories",
			dimStyle.Render("No categories yet. Add one with `budgetpulse add category`."), cw)
	}

	over := 0
	for _, c := range cats {
		if c.OverBudget() {
			over++
		}
	}

	summary := []components.Metric{
		{Label: "Categories", Value: cli.FormatNumber(int64(len(cats)))},
		{Label: "Over budget", Value: cli.FormatNumber(int64(over))},
		{Label: "Uncategorized", Value: cli.FormatMoney(r.Uncategorized, a.currency)},
	}
	if over > 0 {
		summary[1].Tone = t.Over
	}
	if r.Uncategorized.IsPositive() {
		summary[2].Tone = t.Warn
	}

	innerW := components.CardInnerWidth(cw)
	labelW := 16
	amountW := 26
	barW := innerW - labelW - amountW - 8
	if barW < 10 {
		barW = 10
	}

	var body strings.Builder
	for i, c := range cats {
		if i > 0 {
			body.WriteString("\n")
		}
		body.WriteString(components.UsageBar(c.Name, c.PercentUsed, labelW, barW))
		body.WriteString(spaceStyle.Render("  "))

		amount := cli.FormatMoney(c.Spent, a.currency)
		if c.Budget.IsPositive() {
			amount += " / " + cli.FormatMoney(c.Budget, a.currency)
		} else {
			amount += " / no limit"
		}
		body.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", amountW, amount)))

		if c.Budget.IsPositive() {
			body.WriteString("\n")
			remaining := cli.FormatMoney(c.Remaining, a.currency) + " left"
			tone := labelStyle
			if c.Remaining.IsNegative() {
				remaining = cli.FormatMoney(c.Remaining.Neg(), a.currency) + " over"
				tone = lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface)
			}
			body.WriteString(spaceStyle.Render(strings.Repeat(" ", labelW+1)))
			body.WriteString(tone.Render(remaining))
		}
	}

	title := "Spending by Category · " + a.periodLabel()

	var b strings.Builder
	b.WriteString(components.MetricCardRow(summary, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(title, body.String(), cw))
	return b.String()
}
