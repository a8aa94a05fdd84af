package insight

import (
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/shopspring/decimal"
)

const (
	lowSavingsPercent = 50
	attentionScore    = 50
	goodStandingScore = 80
)

// obligationShare is the fraction of income obligations may take before
// a payoff strategy is suggested.
var obligationShare = decimal.New(5, -1)

// Recommend derives advice from computed insights. Each rule is checked on
// its own, so several can fire at once, and the order is fixed.
func Recommend(in model.BudgetInsights) []model.Recommendation {
	recs := []model.Recommendation{}

	if in.AvailableBalance.IsNegative() {
		recs = append(recs, model.Recommendation{
			Kind:    model.KindAlert,
			Message: "Your expenses exceed your income. Review your spending to avoid going into debt.",
		})
	}

	if over := OverBudget(in); len(over) > 0 {
		names := make([]string, len(over))
		for i, c := range over {
			names[i] = c.Name
		}
		msg := "You are over budget in " + strings.Join(names, ", ") + "."
		if len(over) == 1 {
			msg += " Consider cutting back in this category."
		} else {
			msg += " Consider cutting back in these categories."
		}
		recs = append(recs, model.Recommendation{Kind: model.KindWarning, Message: msg})
	}

	if in.SavingsProgress.Percentage < lowSavingsPercent {
		recs = append(recs, model.Recommendation{
			Kind:    model.KindSuggestion,
			Message: "Consider increasing your savings contributions to reach your goals sooner.",
		})
	}

	if in.TotalObligations.GreaterThan(in.TotalIncome.Mul(obligationShare)) {
		recs = append(recs, model.Recommendation{
			Kind:    model.KindWarning,
			Message: "Your obligations take more than half of your income. Consider a debt payoff strategy.",
		})
	}

	switch {
	case in.HealthScore < attentionScore:
		recs = append(recs, model.Recommendation{
			Kind:    model.KindAlert,
			Message: "Your financial health needs attention. Focus on reducing expenses and building savings.",
		})
	case in.HealthScore >= goodStandingScore:
		recs = append(recs, model.Recommendation{
			Kind:    model.KindPraise,
			Message: "Great job! Your finances are in good shape. Keep it up.",
		})
	}

	return recs
}
