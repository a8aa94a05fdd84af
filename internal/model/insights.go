package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetInsights is the derived view of a household snapshot.
type BudgetInsights struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	AvailableBalance decimal.Decimal `json:"available_balance"`

	Categories      []CategoryInsight `json:"categories"`
	SavingsProgress SavingsProgress   `json:"savings_progress"`

	UpcomingPayments  decimal.Decimal `json:"upcoming_payments"`
	TotalDebtPayments decimal.Decimal `json:"total_debt_payments"`
	TotalObligations  decimal.Decimal `json:"total_obligations"`

	HealthScore     int              `json:"health_score"`
	Recommendations []Recommendation `json:"recommendations"`
}

// CategoryInsight holds spend against budget for one category.
type CategoryInsight struct {
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed float64         `json:"percent_used"`
}

// OverBudget reports whether spend has passed the budget.
func (c CategoryInsight) OverBudget() bool {
	return c.PercentUsed > 100
}

// SavingsProgress aggregates all savings goals.
type SavingsProgress struct {
	Total      decimal.Decimal `json:"total"`
	Target     decimal.Decimal `json:"target"`
	Percentage float64         `json:"percentage"`
}

// RecommendationKind classifies a recommendation for display.
type RecommendationKind string

const (
	KindWarning    RecommendationKind = "warning"
	KindSuggestion RecommendationKind = "suggestion"
	KindAlert      RecommendationKind = "alert"
	KindPraise     RecommendationKind = "praise"
)

// Recommendation is one piece of advice derived from the insights.
type Recommendation struct {
	Kind    RecommendationKind `json:"kind"`
	Message string             `json:"message"`
}

// HealthFactor is a single rule that moved the health score.
type HealthFactor struct {
	Rule   string  `json:"rule"`
	Value  float64 `json:"value"`
	Points int     `json:"points"`
}

// HealthBreakdown explains how a health score was reached.
type HealthBreakdown struct {
	Base         int            `json:"base"`
	ExpenseRatio float64        `json:"expense_ratio"`
	SavingsRate  float64        `json:"savings_rate"`
	DebtToIncome float64        `json:"debt_to_income"`
	Factors      []HealthFactor `json:"factors"`
	Unclamped    int            `json:"unclamped"`
	Score        int            `json:"score"`
}

// DailySpend is total expense for one calendar day.
type DailySpend struct {
	Date  time.Time
	Total decimal.Decimal
}

// MonthComparison holds month-over-month deltas.
type MonthComparison struct {
	IncomeDelta   decimal.Decimal
	ExpensesDelta decimal.Decimal
	BalanceDelta  decimal.Decimal
	ScoreDelta    int
	HasPrevious   bool
}
