// Package model defines domain types for household budgets and their insights.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdditionalIncome is money received on top of the monthly budget.
type AdditionalIncome struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
}

// Expense is a single outflow, attributed to a category.
type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    CategoryRef     `json:"category"`
	Date        time.Time       `json:"date"`
}

// Category is a named spending bucket. A zero budget means "no ceiling".
type Category struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Budget decimal.Decimal `json:"budget"`
}

// SavingsGoal tracks accumulated savings against a target.
type SavingsGoal struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
}

// FuturePayment is a scheduled outflow. Only unpaid ones count as obligations.
type FuturePayment struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date"`
	IsPaid      bool            `json:"is_paid"`
}

// Debt is an outstanding liability with a recurring minimum payment.
type Debt struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
}

// Snapshot is the complete household state handed to the insight engine.
// It is treated as read-only once built.
type Snapshot struct {
	MonthlyBudget  decimal.Decimal    `json:"monthly_budget"`
	Incomes        []AdditionalIncome `json:"incomes"`
	Expenses       []Expense          `json:"expenses"`
	Categories     []Category         `json:"categories"`
	SavingsGoals   []SavingsGoal      `json:"savings_goals"`
	FuturePayments []FuturePayment    `json:"future_payments"`
	Debts          []Debt             `json:"debts"`
}

// CategoryByName returns the category with the given name, if any.
func (s Snapshot) CategoryByName(name string) (Category, bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
