package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/tui/components"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderObligationsTab(cw int) string {
	t := theme.Active
	r := a.report
	in := r.Insights

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	overdueStyle := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface)

	summary := []components.Metric{
		{Label: "Upcoming payments", Value: cli.FormatMoney(in.UpcomingPayments, a.currency)},
		{Label: "Debt minimums", Value: cli.FormatMoney(in.TotalDebtPayments, a.currency)},
		{Label: "Total obligations", Value: cli.FormatMoney(in.TotalObligations, a.currency)},
	}
	if in.TotalObligations.GreaterThan(in.AvailableBalance) {
		summary[2].Tone = t.Warn
	}

	innerW := components.CardInnerWidth(cw)
	descW := innerW - 40
	if descW < 16 {
		descW = 16
	}

	now := a.lastRefresh

	// Payments due within the horizon, including overdue ones.
	var pay strings.Builder
	if len(r.Upcoming) == 0 {
		pay.WriteString(dimStyle.Render("Nothing due."))
	} else {
		pay.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %14s %12s %10s", descW, "Description", "Amount", "Due", "")))
		for _, p := range r.Upcoming {
			pay.WriteString("\n")
			due := cli.FormatDue(p.DueDate, now)
			line := fmt.Sprintf("%-*s %14s %12s ", descW, truncStr(p.Description, descW),
				cli.FormatMoney(p.Amount, a.currency), cli.FormatDate(p.DueDate))
			pay.WriteString(rowStyle.Render(line))
			if p.DueDate.Before(now) {
				pay.WriteString(overdueStyle.Render(fmt.Sprintf("%10s", due)))
			} else {
				pay.WriteString(mutedStyle.Render(fmt.Sprintf("%10s", due)))
			}
		}
	}

	var debts strings.Builder
	if len(r.Scoped.Debts) == 0 {
		debts.WriteString(dimStyle.Render("No debts recorded."))
	} else {
		debts.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %14s %14s %8s", descW, "Name", "Balance", "Minimum", "Rate")))
		for _, d := range r.Scoped.Debts {
			debts.WriteString("\n")
			debts.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %14s %14s %7s%%", descW, truncStr(d.Name, descW),
				cli.FormatMoney(d.Balance, a.currency),
				cli.FormatMoney(d.MinimumPayment, a.currency),
				d.InterestRate.StringFixed(1))))
		}
	}

	horizonTitle := "Upcoming Payments"
	if a.horizon > 0 {
		horizonTitle = fmt.Sprintf("Upcoming Payments · next %d days", int(a.horizon.Hours()/24))
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow(summary, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard(horizonTitle, pay.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Debts", debts.String(), cw))
	return b.String()
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
