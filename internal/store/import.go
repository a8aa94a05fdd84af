package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/model"
)

// ImportStats reports what an import wrote.
type ImportStats struct {
	Categories        int
	CategoriesUpdated int
	Incomes           int
	Expenses          int
	Goals             int
	Payments          int
	Debts             int

	// Relinked counts name references that turned out to be stored IDs.
	Relinked int
}

// Total returns the number of records written.
func (st ImportStats) Total() int {
	return st.Categories + st.CategoriesUpdated + st.Incomes + st.Expenses + st.Goals + st.Payments + st.Debts
}

// Import writes a parsed snapshot into the store in a single transaction.
//
// With replace set, existing records are removed first and the monthly
// budget is overwritten. Otherwise records are upserted by ID, a category
// whose name already exists keeps its stored ID and takes the imported
// budget, a category with a known ID but a new name is renamed, and a
// zero monthly budget leaves the stored one untouched.
//
// Expense references are re-resolved against the stored categories once
// the imported ones are written, so a file may tag expenses with the ID of
// a category it does not define.
func (s *Store) Import(ctx context.Context, snap model.Snapshot, replace bool) (ImportStats, error) {
	var stats ImportStats
	err := s.write(ctx, func(tx *sql.Tx) error {
		if replace {
			for _, k := range Kinds {
				//nolint:gosec // table comes from a fixed map
				if _, err := tx.ExecContext(ctx, "DELETE FROM "+kindTables[k]); err != nil {
					return fmt.Errorf("clearing %s: %w", k, err)
				}
			}
		}
		if replace || !snap.MonthlyBudget.IsZero() {
			if _, err := tx.ExecContext(ctx, "UPDATE household SET monthly_budget = ? WHERE id = 1",
				snap.MonthlyBudget.String()); err != nil {
				return err
			}
		}

		remap := make(map[string]string)
		for _, c := range snap.Categories {
			storedID, err := categoryIDByName(ctx, tx, c.Name)
			if err != nil {
				return err
			}
			if storedID != "" {
				if _, err := tx.ExecContext(ctx, "UPDATE categories SET budget = ? WHERE id = ?",
					c.Budget.String(), storedID); err != nil {
					return err
				}
				if storedID != c.ID {
					remap[c.ID] = storedID
				}
				stats.CategoriesUpdated++
				continue
			}
			res, err := tx.ExecContext(ctx, "UPDATE categories SET name = ?, budget = ? WHERE id = ?",
				c.Name, c.Budget.String(), c.ID)
			if err != nil {
				return err
			}
			if n, _ := res.RowsAffected(); n > 0 {
				stats.CategoriesUpdated++
				continue
			}
			if err := insertCategory(ctx, tx, c); err != nil {
				return fmt.Errorf("importing category %q: %w", c.Name, err)
			}
			stats.Categories++
		}

		for _, inc := range snap.Incomes {
			if err := insertIncome(ctx, tx, inc); err != nil {
				return fmt.Errorf("importing income %q: %w", inc.Name, err)
			}
			stats.Incomes++
		}
		for _, e := range snap.Expenses {
			ref, err := importRef(ctx, tx, e.Category, remap)
			if err != nil {
				return err
			}
			if ref.Kind != e.Category.Kind {
				stats.Relinked++
			}
			e.Category = ref
			if err := insertExpense(ctx, tx, e); err != nil {
				return fmt.Errorf("importing expense %q: %w", e.Description, err)
			}
			stats.Expenses++
		}
		for _, g := range snap.SavingsGoals {
			if err := insertGoal(ctx, tx, g); err != nil {
				return fmt.Errorf("importing goal %q: %w", g.Name, err)
			}
			stats.Goals++
		}
		for _, p := range snap.FuturePayments {
			if err := insertPayment(ctx, tx, p); err != nil {
				return fmt.Errorf("importing payment %q: %w", p.Description, err)
			}
			stats.Payments++
		}
		for _, d := range snap.Debts {
			if err := insertDebt(ctx, tx, d); err != nil {
				return fmt.Errorf("importing debt %q: %w", d.Name, err)
			}
			stats.Debts++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

func categoryIDByName(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// importRef maps a file's category reference onto stored categories. ID
// references follow category merges. A name reference that matches no
// stored name but equals a stored ID becomes an ID reference.
func importRef(ctx context.Context, tx *sql.Tx, ref model.CategoryRef, remap map[string]string) (model.CategoryRef, error) {
	if id, ok := remap[ref.Value]; ok && ref.Kind == model.RefByID {
		return model.ByID(id), nil
	}
	if ref.Kind != model.RefByName || ref.Value == "" {
		return ref, nil
	}

	byName, err := categoryIDByName(ctx, tx, ref.Value)
	if err != nil || byName != "" {
		return ref, err
	}
	if id, ok := remap[ref.Value]; ok {
		return model.ByID(id), nil
	}
	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM categories WHERE id = ?", ref.Value).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ref, nil
	case err != nil:
		return ref, err
	}
	return model.ByID(id), nil
}
