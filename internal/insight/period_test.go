package insight

import (
	"testing"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"
)

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 12, 0, 0, 0, time.UTC)
}

func TestForMonth(t *testing.T) {
	s := model.Snapshot{
		MonthlyBudget: d("2000"),
		Incomes: []model.AdditionalIncome{
			{Name: "May bonus", Amount: d("100"), Date: day(2025, 5, 30)},
			{Name: "June bonus", Amount: d("200"), Date: day(2025, 6, 1)},
		},
		Expenses: []model.Expense{
			{Amount: d("10"), Date: day(2025, 5, 31)},
			{Amount: d("20"), Date: day(2025, 6, 15)},
			{Amount: d("40"), Date: day(2025, 6, 30)},
			{Amount: d("80"), Date: day(2024, 6, 15)},
		},
		Debts: []model.Debt{{Name: "Card", MinimumPayment: d("50")}},
	}

	june := ForMonth(s, day(2025, 6, 3))
	if len(june.Expenses) != 2 {
		t.Fatalf("June expenses = %d, want 2", len(june.Expenses))
	}
	if len(june.Incomes) != 1 || june.Incomes[0].Name != "June bonus" {
		t.Fatalf("June incomes = %+v, want only June bonus", june.Incomes)
	}
	if len(june.Debts) != 1 {
		t.Errorf("Debts should pass through, got %d", len(june.Debts))
	}
	if len(s.Expenses) != 4 {
		t.Errorf("ForMonth mutated its input: %d expenses left", len(s.Expenses))
	}

	got := Compute(june)
	if !got.TotalExpenses.Equal(d("60")) {
		t.Errorf("June TotalExpenses = %s, want 60", got.TotalExpenses)
	}
	if !got.TotalIncome.Equal(d("2200")) {
		t.Errorf("June TotalIncome = %s, want 2200", got.TotalIncome)
	}
}

func TestDailySpend(t *testing.T) {
	exps := []model.Expense{
		{Amount: d("5"), Date: day(2025, 2, 1)},
		{Amount: d("7.25"), Date: day(2025, 2, 1)},
		{Amount: d("3"), Date: day(2025, 2, 28)},
		{Amount: d("99"), Date: day(2025, 3, 1)},
	}

	days := DailySpend(exps, day(2025, 2, 14))
	if len(days) != 28 {
		t.Fatalf("len = %d, want 28 days in February 2025", len(days))
	}
	if !days[0].Total.Equal(d("12.25")) {
		t.Errorf("Feb 1 total = %s, want 12.25", days[0].Total)
	}
	if !days[27].Total.Equal(d("3")) {
		t.Errorf("Feb 28 total = %s, want 3", days[27].Total)
	}
	if !days[10].Total.IsZero() {
		t.Errorf("Feb 11 total = %s, want 0", days[10].Total)
	}
}

func TestUpcomingObligations(t *testing.T) {
	now := day(2025, 6, 10)
	s := model.Snapshot{FuturePayments: []model.FuturePayment{
		{Description: "later", Amount: d("1"), DueDate: day(2025, 6, 25)},
		{Description: "overdue", Amount: d("1"), DueDate: day(2025, 6, 1)},
		{Description: "paid", Amount: d("1"), DueDate: day(2025, 6, 12), IsPaid: true},
		{Description: "soon", Amount: d("1"), DueDate: day(2025, 6, 12)},
		{Description: "too far", Amount: d("1"), DueDate: day(2025, 8, 1)},
	}}

	got := UpcomingObligations(s, now, 30*24*time.Hour)
	want := []string{"overdue", "soon", "later"}
	if len(got) != len(want) {
		t.Fatalf("got %d payments, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Description != w {
			t.Errorf("payment %d = %q, want %q", i, got[i].Description, w)
		}
	}
}

func TestCompare(t *testing.T) {
	prev := model.BudgetInsights{TotalIncome: d("2000"), TotalExpenses: d("1500"), AvailableBalance: d("500"), HealthScore: 70}
	curr := model.BudgetInsights{TotalIncome: d("2100"), TotalExpenses: d("1200"), AvailableBalance: d("900"), HealthScore: 90}

	c := Compare(curr, prev)
	if !c.HasPrevious {
		t.Error("HasPrevious = false")
	}
	if !c.ExpensesDelta.Equal(d("-300")) {
		t.Errorf("ExpensesDelta = %s, want -300", c.ExpensesDelta)
	}
	if !c.BalanceDelta.Equal(d("400")) {
		t.Errorf("BalanceDelta = %s, want 400", c.BalanceDelta)
	}
	if c.ScoreDelta != 20 {
		t.Errorf("ScoreDelta = %d, want 20", c.ScoreDelta)
	}
}
