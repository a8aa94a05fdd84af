package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/model"
	"github.com/theirongolddev/budgetpulse/internal/tui/components"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	in := r.Insights
	cmp := r.Comparison
	var b strings.Builder

	// Row 1: headline figures
	balanceTone := t.OK
	if in.AvailableBalance.IsNegative() {
		balanceTone = t.Over
	}

	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(in.TotalIncome, a.currency)},
		{Label: "Spent", Value: cli.FormatMoney(in.TotalExpenses, a.currency)},
		{Label: "Balance", Value: cli.FormatMoney(in.AvailableBalance, a.currency), Tone: balanceTone},
		{Label: "Health", Value: fmt.Sprintf("%d/100", in.HealthScore), Tone: t.ScoreTone(in.HealthScore),
			Delta: cli.ScoreLabel(in.HealthScore)},
	}
	if cmp.HasPrevious {
		cards[0].Delta = cli.FormatDelta(cmp.IncomeDelta, a.currency) + " vs last month"
		cards[1].Delta = cli.FormatDelta(cmp.ExpensesDelta, a.currency) + " vs last month"
		cards[2].Delta = cli.FormatDelta(cmp.BalanceDelta, a.currency) + " vs last month"
		cards[3].Delta = cli.ScoreLabel(in.HealthScore) + " (" + cli.FormatScoreDelta(cmp.ScoreDelta) + ")"
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: daily spending across the month
	if len(r.Daily) > 0 {
		vals := make([]float64, len(r.Daily))
		for i, d := range r.Daily {
			vals[i] = d.Total.InexactFloat64()
		}
		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		b.WriteString(components.ContentCard(
			"Daily Spending · "+cli.FormatMonth(r.Month),
			components.DayChart(vals, t.Spend, components.CardInnerWidth(cw), chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: recommendations next to the score breakdown
	recs := renderRecommendations(in.Recommendations, t)

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Recommendations", recs, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Health Score", a.renderHealthBody(cw), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Recommendations", recs, halves[0]),
			components.ContentCard("Health Score", a.renderHealthBody(halves[1]), halves[1]),
		}))
	}

	return b.String()
}

var recommendationIcons = map[model.RecommendationKind]string{
	model.KindAlert:      "✖",
	model.KindWarning:    "▲",
	model.KindSuggestion: "●",
	model.KindPraise:     "✔",
}

func recommendationColor(kind model.RecommendationKind, t theme.Theme) lipgloss.Color {
	switch kind {
	case model.KindAlert:
		return t.Over
	case model.KindWarning:
		return t.Warn
	case model.KindPraise:
		return t.OK
	default:
		return t.Spend
	}
}

func renderRecommendations(recs []model.Recommendation, t theme.Theme) string {
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if len(recs) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("Nothing to flag.")
	}

	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		icon, ok := recommendationIcons[rec.Kind]
		if !ok {
			icon = "•"
		}
		iconStyle := lipgloss.NewStyle().Foreground(recommendationColor(rec.Kind, t)).Background(t.Surface).Bold(true)
		lines = append(lines, iconStyle.Render(icon)+spaceStyle.Render(" ")+textStyle.Render(rec.Message))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderHealthBody(outerWidth int) string {
	t := theme.Active
	bd := a.report.Breakdown
	innerW := components.CardInnerWidth(outerWidth)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	penaltyStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	bonusStyle := lipgloss.NewStyle().Foreground(t.OK).Background(t.Surface)

	gaugeW := innerW - 8
	if gaugeW < 10 {
		gaugeW = 10
	}

	var b strings.Builder
	b.WriteString(components.ScoreGauge(bd.Score, gaugeW))
	b.WriteString("\n\n")

	ratios := []struct {
		label string
		value float64
	}{
		{"Expense ratio", bd.ExpenseRatio},
		{"Savings rate", bd.SavingsRate},
		{"Debt to income", bd.DebtToIncome},
	}
	for _, r := range ratios {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", r.label)))
		b.WriteString(valueStyle.Render(cli.FormatPercent(r.value)))
		b.WriteString("\n")
	}

	if len(bd.Factors) > 0 {
		b.WriteString("\n")
		for _, f := range bd.Factors {
			style := penaltyStyle
			if f.Points > 0 {
				style = bonusStyle
			}
			b.WriteString(style.Render(fmt.Sprintf("%+4d", f.Points)))
			b.WriteString(labelStyle.Render(" " + f.Rule))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
