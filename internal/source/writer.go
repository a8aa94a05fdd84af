package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/BurntSushi/toml"
)

// FromSnapshot converts a snapshot back into its raw file form. Expense
// categories keep their reference value, and category IDs are written out
// so references by ID survive a round trip.
func FromSnapshot(s model.Snapshot, currency string) RawHousehold {
	raw := RawHousehold{
		Household: RawHeader{
			MonthlyBudget: Amount(s.MonthlyBudget.String()),
			Currency:      currency,
		},
	}
	for _, c := range s.Categories {
		raw.Categories = append(raw.Categories, RawCategory{ID: c.ID, Name: c.Name, Budget: Amount(c.Budget.String())})
	}
	for _, i := range s.Incomes {
		raw.Incomes = append(raw.Incomes, RawIncome{
			ID:     i.ID,
			Name:   i.Name,
			Amount: Amount(i.Amount.String()),
			Date:   Date(i.Date.Format(dateLayout)),
		})
	}
	for _, e := range s.Expenses {
		raw.Expenses = append(raw.Expenses, RawExpense{
			ID:          e.ID,
			Description: e.Description,
			Amount:      Amount(e.Amount.String()),
			Category:    e.Category.Value,
			Date:        Date(e.Date.Format(dateLayout)),
		})
	}
	for _, g := range s.SavingsGoals {
		rg := RawGoal{
			ID:      g.ID,
			Name:    g.Name,
			Target:  Amount(g.TargetAmount.String()),
			Current: Amount(g.CurrentAmount.String()),
		}
		if g.Deadline != nil {
			rg.Deadline = Date(g.Deadline.Format(dateLayout))
		}
		raw.Goals = append(raw.Goals, rg)
	}
	for _, p := range s.FuturePayments {
		raw.Payments = append(raw.Payments, RawPayment{
			ID:          p.ID,
			Description: p.Description,
			Amount:      Amount(p.Amount.String()),
			Due:         Date(p.DueDate.Format(dateLayout)),
			Paid:        p.IsPaid,
		})
	}
	for _, d := range s.Debts {
		raw.Debts = append(raw.Debts, RawDebt{
			ID:             d.ID,
			Name:           d.Name,
			Balance:        Amount(d.Balance.String()),
			MinimumPayment: Amount(d.MinimumPayment.String()),
			InterestRate:   Amount(d.InterestRate.String()),
		})
	}
	return raw
}

// Write encodes a snapshot as a household file.
func Write(w io.Writer, s model.Snapshot, currency string, format Format) error {
	raw := FromSnapshot(s, currency)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(raw); err != nil {
			return fmt.Errorf("encoding json household: %w", err)
		}
	default:
		if err := toml.NewEncoder(w).Encode(raw); err != nil {
			return fmt.Errorf("encoding toml household: %w", err)
		}
	}
	return nil
}
