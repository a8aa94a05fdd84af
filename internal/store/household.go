package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names a household record type for generic operations.
type Kind string

const (
	KindCategory Kind = "category"
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindGoal     Kind = "goal"
	KindPayment  Kind = "payment"
	KindDebt     Kind = "debt"
)

var kindTables = map[Kind]string{
	KindCategory: "categories",
	KindIncome:   "incomes",
	KindExpense:  "expenses",
	KindGoal:     "savings_goals",
	KindPayment:  "future_payments",
	KindDebt:     "debts",
}

// Kinds lists every record kind in display order.
var Kinds = []Kind{KindCategory, KindIncome, KindExpense, KindGoal, KindPayment, KindDebt}

// MonthlyBudget returns the household's monthly budget.
func (s *Store) MonthlyBudget(ctx context.Context) (decimal.Decimal, error) {
	var budget decimal.Decimal
	err := s.db.QueryRowContext(ctx, "SELECT monthly_budget FROM household WHERE id = 1").Scan(&budget)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading monthly budget: %w", err)
	}
	return budget, nil
}

// SetMonthlyBudget replaces the household's monthly budget.
func (s *Store) SetMonthlyBudget(ctx context.Context, amount decimal.Decimal) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "UPDATE household SET monthly_budget = ? WHERE id = 1", amount.String())
		return err
	})
}

// AddCategory inserts a category at the end of the list. A missing ID is generated.
func (s *Store) AddCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := s.write(ctx, func(tx *sql.Tx) error {
		return insertCategory(ctx, tx, c)
	})
	return c, err
}

func insertCategory(ctx context.Context, tx *sql.Tx, c model.Category) error {
	var exists int
	err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories WHERE name = ?", c.Name).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("category %q: %w", c.Name, ErrDuplicateName)
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO categories (id, name, budget, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM categories))`,
		c.ID, c.Name, c.Budget.String())
	return err
}

// SetCategoryBudget updates the budget of the category with the given ID or name.
func (s *Store) SetCategoryBudget(ctx context.Context, idOrName string, budget decimal.Decimal) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE categories SET budget = ? WHERE id = ? OR name = ?",
			budget.String(), idOrName, idOrName)
		if err != nil {
			return err
		}
		return requireAffected(res, "category", idOrName)
	})
}

// Categories returns all categories in insertion order.
func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	return queryCategories(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryCategories(ctx context.Context, q querier) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, budget FROM categories ORDER BY position, rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Budget); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AddIncome inserts an additional income.
func (s *Store) AddIncome(ctx context.Context, inc model.AdditionalIncome) (model.AdditionalIncome, error) {
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	err := s.write(ctx, func(tx *sql.Tx) error {
		return insertIncome(ctx, tx, inc)
	})
	return inc, err
}

func insertIncome(ctx context.Context, tx *sql.Tx, inc model.AdditionalIncome) error {
	_, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO incomes (id, name, amount, date) VALUES (?, ?, ?, ?)",
		inc.ID, inc.Name, inc.Amount.String(), formatDate(inc.Date))
	return err
}

func queryIncomes(ctx context.Context, q querier) ([]model.AdditionalIncome, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, amount, date FROM incomes ORDER BY date, rowid")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.AdditionalIncome
	for rows.Next() {
		var inc model.AdditionalIncome
		var date string
		if err := rows.Scan(&inc.ID, &inc.Name, &inc.Amount, &date); err != nil {
			return nil, err
		}
		if inc.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

// AddExpense inserts an expense. The category reference is stored as given.
func (s *Store) AddExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	err := s.write(ctx, func(tx *sql.Tx) error {
		return insertExpense(ctx, tx, e)
	})
	return e, err
}

func insertExpense(ctx context.Context, tx *sql.Tx, e model.Expense) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO expenses
		(id, description, amount, category_kind, category_ref, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Description, e.Amount.String(), e.Category.Kind.String(), e.Category.Value, formatDate(e.Date))
	return err
}

func queryExpenses(ctx context.Context, q querier) ([]model.Expense, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, description, amount, category_kind, category_ref, date
		FROM expenses ORDER BY date, rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Expense
	for rows.Next() {
		var e model.Expense
		var kind, date string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &kind, &e.Category.Value, &date); err != nil {
			return nil, err
		}
		if e.Category.Kind, err = model.ParseRefKind(kind); err != nil {
			return nil, err
		}
		if e.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddGoal inserts a savings goal.
func (s *Store) AddGoal(ctx context.Context, g model.SavingsGoal) (model.SavingsGoal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	err := s.write(ctx, func(tx *sql.Tx) error {
		return insertGoal(ctx, tx, g)
	})
	return g, err
}

func insertGoal(ctx context.Context, tx *sql.Tx, g model.SavingsGoal) error {
	var deadline sql.NullString
	if g.Deadline != nil {
		deadline = sql.NullString{String: formatDate(*g.Deadline), Valid: true}
	}
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO savings_goals
		(id, name, target_amount, current_amount, deadline, position)
		VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM savings_goals))`,
		g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), deadline)
	return err
}

// Contribute adds amount to a goal's current savings and returns the goal.
func (s *Store) Contribute(ctx context.Context, goalID string, amount decimal.Decimal) (model.SavingsGoal, error) {
	var goal model.SavingsGoal
	err := s.write(ctx, func(tx *sql.Tx) error {
		var current decimal.Decimal
		err := tx.QueryRowContext(ctx, "SELECT current_amount FROM savings_goals WHERE id = ?", goalID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("goal %q: %w", goalID, ErrNotFound)
		}
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "UPDATE savings_goals SET current_amount = ? WHERE id = ?",
			current.Add(amount).String(), goalID); err != nil {
			return err
		}
		goals, err := queryGoals(ctx, tx)
		if err != nil {
			return err
		}
		for _, g := range goals {
			if g.ID == goalID {
				goal = g
			}
		}
		return nil
	})
	return goal, err
}

func queryGoals(ctx context.Context, q querier) ([]model.SavingsGoal, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, target_amount, current_amount, deadline
		FROM savings_goals ORDER BY position, rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.SavingsGoal
	for rows.Next() {
		var g model.SavingsGoal
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline); err != nil {
			return nil, err
		}
		if deadline.Valid && deadline.String != "" {
			t, err := parseDate(deadline.String)
			if err != nil {
				return nil, err
			}
			g.Deadline = &t
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// AddPayment inserts a future payment.
func (s *Store) AddPayment(ctx context.Context, p model.FuturePayment) (model.FuturePayment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := s.write(ctx, func(tx *sql.Tx) error {
		return insertPayment(ctx, tx, p)
	})
	return p, err
}

func insertPayment(ctx context.Context, tx *sql.Tx, p model.FuturePayment) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO future_payments
		(id, description, amount, due_date, is_paid) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Description, p.Amount.String(), formatDate(p.DueDate), boolToInt(p.IsPaid))
	return err
}

// MarkPaymentPaid flags a future payment as paid, removing it from obligations.
func (s *Store) MarkPaymentPaid(ctx context.Context, id string) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE future_payments SET is_paid = 1 WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(res, "payment", id)
	})
}

func queryPayments(ctx context.Context, q querier) ([]model.FuturePayment, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, description, amount, due_date, is_paid
		FROM future_payments ORDER BY due_date, rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.FuturePayment
	for rows.Next() {
		var p model.FuturePayment
		var due string
		var paid int
		if err := rows.Scan(&p.ID, &p.Description, &p.Amount, &due, &paid); err != nil {
			return nil, err
		}
		if p.DueDate, err = parseDate(due); err != nil {
			return nil, err
		}
		p.IsPaid = paid != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddDebt inserts a debt.
func (s *Store) AddDebt(ctx context.Context, d model.Debt) (model.Debt, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	err := s.write(ctx, func(tx *sql.Tx) error {
		return insertDebt(ctx, tx, d)
	})
	return d, err
}

func insertDebt(ctx context.Context, tx *sql.Tx, d model.Debt) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO debts
		(id, name, balance, minimum_payment, interest_rate) VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Balance.String(), d.MinimumPayment.String(), d.InterestRate.String())
	return err
}

func queryDebts(ctx context.Context, q querier) ([]model.Debt, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, balance, minimum_payment, interest_rate
		FROM debts ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Debt
	for rows.Next() {
		var d model.Debt
		if err := rows.Scan(&d.ID, &d.Name, &d.Balance, &d.MinimumPayment, &d.InterestRate); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes the record of the given kind and ID.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	table, ok := kindTables[kind]
	if !ok {
		return fmt.Errorf("unknown record kind %q", kind)
	}
	return s.write(ctx, func(tx *sql.Tx) error {
		//nolint:gosec // table comes from a fixed map
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return err
		}
		return requireAffected(res, string(kind), id)
	})
}

// LoadSnapshot reads the whole household in one consistent transaction.
func (s *Store) LoadSnapshot(ctx context.Context) (model.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var snap model.Snapshot
	if err := tx.QueryRowContext(ctx, "SELECT monthly_budget FROM household WHERE id = 1").Scan(&snap.MonthlyBudget); err != nil {
		return model.Snapshot{}, fmt.Errorf("reading monthly budget: %w", err)
	}
	if snap.Categories, err = queryCategories(ctx, tx); err != nil {
		return model.Snapshot{}, fmt.Errorf("loading categories: %w", err)
	}
	if snap.Incomes, err = queryIncomes(ctx, tx); err != nil {
		return model.Snapshot{}, fmt.Errorf("loading incomes: %w", err)
	}
	if snap.Expenses, err = queryExpenses(ctx, tx); err != nil {
		return model.Snapshot{}, fmt.Errorf("loading expenses: %w", err)
	}
	if snap.SavingsGoals, err = queryGoals(ctx, tx); err != nil {
		return model.Snapshot{}, fmt.Errorf("loading savings goals: %w", err)
	}
	if snap.FuturePayments, err = queryPayments(ctx, tx); err != nil {
		return model.Snapshot{}, fmt.Errorf("loading future payments: %w", err)
	}
	if snap.Debts, err = queryDebts(ctx, tx); err != nil {
		return model.Snapshot{}, fmt.Errorf("loading debts: %w", err)
	}
	return snap, nil
}

// Counts holds the number of stored records per kind.
type Counts map[Kind]int

// Counts returns the number of records per kind.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	out := make(Counts, len(kindTables))
	for _, k := range Kinds {
		var n int
		//nolint:gosec // table comes from a fixed map
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+kindTables[k]).Scan(&n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, nil
}

// UpdatedAt returns the time of the last write, or zero if never written.
func (s *Store) UpdatedAt(ctx context.Context) (time.Time, error) {
	var raw string
	if err := s.db.QueryRowContext(ctx, "SELECT updated_at FROM household WHERE id = 1").Scan(&raw); err != nil {
		return time.Time{}, err
	}
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
