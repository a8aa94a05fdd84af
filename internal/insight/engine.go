// Package insight derives budget insights from a household snapshot.
//
// Everything here is pure: the same snapshot always yields the same
// insights, and nothing is retained between calls.
package insight

import (
	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Compute aggregates a snapshot into totals, per-category usage, savings
// progress, obligations, a health score and recommendations.
func Compute(s model.Snapshot) model.BudgetInsights {
	var out model.BudgetInsights

	out.TotalIncome = s.MonthlyBudget
	for _, inc := range s.Incomes {
		out.TotalIncome = out.TotalIncome.Add(inc.Amount)
	}
	for _, e := range s.Expenses {
		out.TotalExpenses = out.TotalExpenses.Add(e.Amount)
	}
	out.AvailableBalance = out.TotalIncome.Sub(out.TotalExpenses)

	out.Categories = Categories(s.Categories, s.Expenses)
	out.SavingsProgress = Savings(s.SavingsGoals)

	for _, p := range s.FuturePayments {
		if !p.IsPaid {
			out.UpcomingPayments = out.UpcomingPayments.Add(p.Amount)
		}
	}
	for _, d := range s.Debts {
		out.TotalDebtPayments = out.TotalDebtPayments.Add(d.MinimumPayment)
	}
	out.TotalObligations = out.UpcomingPayments.Add(out.TotalDebtPayments)

	out.HealthScore = Health(out).Score
	out.Recommendations = Recommend(out)

	return out
}

// Categories computes spend against budget for each category, in input order.
func Categories(categories []model.Category, expenses []model.Expense) []model.CategoryInsight {
	result := make([]model.CategoryInsight, 0, len(categories))
	for _, c := range categories {
		spent := decimal.Zero
		for _, e := range expenses {
			if e.Category.Matches(c) {
				spent = spent.Add(e.Amount)
			}
		}
		result = append(result, model.CategoryInsight{
			CategoryID:  c.ID,
			Name:        c.Name,
			Budget:      c.Budget,
			Spent:       spent,
			Remaining:   c.Budget.Sub(spent),
			PercentUsed: percentOf(spent, c.Budget).InexactFloat64(),
		})
	}
	return result
}

// Savings sums all goals into a single progress figure.
func Savings(goals []model.SavingsGoal) model.SavingsProgress {
	var p model.SavingsProgress
	for _, g := range goals {
		p.Total = p.Total.Add(g.CurrentAmount)
		p.Target = p.Target.Add(g.TargetAmount)
	}
	p.Percentage = percentOf(p.Total, p.Target).InexactFloat64()
	return p
}

// Uncategorized returns the total of expenses that match no category.
func Uncategorized(categories []model.Category, expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		matched := false
		for _, c := range categories {
			if e.Category.Matches(c) {
				matched = true
				break
			}
		}
		if !matched {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// OverBudget returns the categories that have spent more than their budget.
func OverBudget(in model.BudgetInsights) []model.CategoryInsight {
	var over []model.CategoryInsight
	for _, c := range in.Categories {
		if c.OverBudget() {
			over = append(over, c)
		}
	}
	return over
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}
