package insight

import (
	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/shopspring/decimal"
)

// Health score rules. The score starts at baseScore, each rule adds its
// points independently, and the sum is clamped to [0, 100].
const (
	baseScore = 100

	negativeBalancePenalty = -30
	severeExpensePenalty   = -20
	highExpensePenalty     = -10
	strongSavingsBonus     = 10
	weakSavingsPenalty     = -10
	severeDebtPenalty      = -20
	highDebtPenalty        = -10
)

var (
	severeExpenseRatio = decimal.NewFromInt(90)
	highExpenseRatio   = decimal.NewFromInt(80)
	strongSavingsRate  = decimal.NewFromInt(20)
	weakSavingsRate    = decimal.NewFromInt(5)
	severeDebtRatio    = decimal.NewFromInt(40)
	highDebtRatio      = decimal.NewFromInt(20)
)

// Health scores the totals in an insight set and explains which rules fired.
// Only the totals and savings progress are read.
func Health(in model.BudgetInsights) model.HealthBreakdown {
	income := in.TotalIncome

	expenseRatio := hundred
	if income.IsPositive() {
		expenseRatio = in.TotalExpenses.Mul(hundred).Div(income)
	}
	savingsRate := percentOf(in.SavingsProgress.Total, income)
	debtRatio := percentOf(in.TotalDebtPayments, income)

	b := model.HealthBreakdown{
		Base:         baseScore,
		ExpenseRatio: expenseRatio.InexactFloat64(),
		SavingsRate:  savingsRate.InexactFloat64(),
		DebtToIncome: debtRatio.InexactFloat64(),
	}

	add := func(rule string, value decimal.Decimal, points int) {
		b.Factors = append(b.Factors, model.HealthFactor{
			Rule:   rule,
			Value:  value.InexactFloat64(),
			Points: points,
		})
	}

	if in.AvailableBalance.IsNegative() {
		add("negative balance", in.AvailableBalance, negativeBalancePenalty)
	}

	switch {
	case expenseRatio.GreaterThan(severeExpenseRatio):
		add("expenses above 90% of income", expenseRatio, severeExpensePenalty)
	case expenseRatio.GreaterThan(highExpenseRatio):
		add("expenses above 80% of income", expenseRatio, highExpensePenalty)
	}

	switch {
	case savingsRate.GreaterThanOrEqual(strongSavingsRate):
		add("savings at least 20% of income", savingsRate, strongSavingsBonus)
	case savingsRate.LessThan(weakSavingsRate):
		add("savings below 5% of income", savingsRate, weakSavingsPenalty)
	}

	switch {
	case debtRatio.GreaterThan(severeDebtRatio):
		add("debt payments above 40% of income", debtRatio, severeDebtPenalty)
	case debtRatio.GreaterThan(highDebtRatio):
		add("debt payments above 20% of income", debtRatio, highDebtPenalty)
	}

	score := b.Base
	for _, f := range b.Factors {
		score += f.Points
	}
	b.Unclamped = score
	b.Score = min(max(score, 0), 100)
	return b
}
