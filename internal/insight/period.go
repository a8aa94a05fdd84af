package insight

import (
	"sort"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/shopspring/decimal"
)

// MonthStart returns midnight on the first day of t's month, in t's location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func sameMonth(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// ForMonth returns a copy of s with expenses and additional incomes limited
// to the calendar month containing month. Goals, payments and debts are
// not dated by month and pass through unchanged.
func ForMonth(s model.Snapshot, month time.Time) model.Snapshot {
	out := s
	out.Expenses = FilterExpensesByMonth(s.Expenses, month)

	out.Incomes = nil
	for _, inc := range s.Incomes {
		if sameMonth(month, inc.Date) {
			out.Incomes = append(out.Incomes, inc)
		}
	}
	return out
}

// FilterExpensesByMonth returns the expenses dated in month.
func FilterExpensesByMonth(expenses []model.Expense, month time.Time) []model.Expense {
	var out []model.Expense
	for _, e := range expenses {
		if sameMonth(month, e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// DailySpend totals expenses per day of month. Every day of the month is
// present, oldest first, so charts show gaps as zeros.
func DailySpend(expenses []model.Expense, month time.Time) []model.DailySpend {
	start := MonthStart(month)
	end := start.AddDate(0, 1, 0)

	days := make([]model.DailySpend, 0, 31)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, model.DailySpend{Date: d, Total: decimal.Zero})
	}

	for _, e := range expenses {
		if !sameMonth(start, e.Date) {
			continue
		}
		idx := e.Date.In(start.Location()).Day() - 1
		days[idx].Total = days[idx].Total.Add(e.Amount)
	}
	return days
}

// Compare returns the change from prev to curr.
func Compare(curr, prev model.BudgetInsights) model.MonthComparison {
	return model.MonthComparison{
		IncomeDelta:   curr.TotalIncome.Sub(prev.TotalIncome),
		ExpensesDelta: curr.TotalExpenses.Sub(prev.TotalExpenses),
		BalanceDelta:  curr.AvailableBalance.Sub(prev.AvailableBalance),
		ScoreDelta:    curr.HealthScore - prev.HealthScore,
		HasPrevious:   true,
	}
}

// UpcomingObligations returns unpaid payments due before now+horizon,
// overdue ones included, sorted by due date.
func UpcomingObligations(s model.Snapshot, now time.Time, horizon time.Duration) []model.FuturePayment {
	cutoff := now.Add(horizon)
	var out []model.FuturePayment
	for _, p := range s.FuturePayments {
		if p.IsPaid || p.DueDate.After(cutoff) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	return out
}
