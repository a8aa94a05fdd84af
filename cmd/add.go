package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/model"
	"github.com/theirongolddev/budgetpulse/internal/source"
	"github.com/theirongolddev/budgetpulse/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagAddDate     string
	flagAddCategory string
	flagAddBudget   string
	flagAddTarget   string
	flagAddCurrent  string
	flagAddDeadline string
	flagAddDue      string
	flagAddBalance  string
	flagAddMinimum  string
	flagAddRate     string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a record to the household",
}

var addCategoryCmd = &cobra.Command{
	Use:   "category <name>",
	Short: "Add a spending category",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddCategory,
}

var addIncomeCmd = &cobra.Command{
	Use:   "income <name> <amount>",
	Short: "Add income received on top of the monthly budget",
	Args:  cobra.ExactArgs(2),
	RunE:  runAddIncome,
}

var addExpenseCmd = &cobra.Command{
	Use:   "expense <amount> <description>",
	Short: "Add an expense",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAddExpense,
}

var addGoalCmd = &cobra.Command{
	Use:   "goal <name>",
	Short: "Add a savings goal",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddGoal,
}

var addPaymentCmd = &cobra.Command{
	Use:   "payment <description> <amount>",
	Short: "Add a scheduled future payment",
	Args:  cobra.ExactArgs(2),
	RunE:  runAddPayment,
}

var addDebtCmd = &cobra.Command{
	Use:   "debt <name>",
	Short: "Add a debt with its minimum payment",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddDebt,
}

func init() {
	addCategoryCmd.Flags().StringVar(&flagAddBudget, "budget", "0", "Monthly ceiling (0 for no limit)")

	addIncomeCmd.Flags().StringVar(&flagAddDate, "date", "", "Date received, YYYY-MM-DD (default today)")

	addExpenseCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category name or ID")
	addExpenseCmd.Flags().StringVar(&flagAddDate, "date", "", "Date spent, YYYY-MM-DD (default today)")
	_ = addExpenseCmd.MarkFlagRequired("category")

	addGoalCmd.Flags().StringVar(&flagAddTarget, "target", "", "Target amount")
	addGoalCmd.Flags().StringVar(&flagAddCurrent, "current", "0", "Amount already saved")
	addGoalCmd.Flags().StringVar(&flagAddDeadline, "deadline", "", "Deadline, YYYY-MM-DD")
	_ = addGoalCmd.MarkFlagRequired("target")

	addPaymentCmd.Flags().StringVar(&flagAddDue, "due", "", "Due date, YYYY-MM-DD")
	_ = addPaymentCmd.MarkFlagRequired("due")

	addDebtCmd.Flags().StringVar(&flagAddBalance, "balance", "", "Outstanding balance")
	addDebtCmd.Flags().StringVar(&flagAddMinimum, "min", "", "Minimum monthly payment")
	addDebtCmd.Flags().StringVar(&flagAddRate, "rate", "0", "Annual interest rate in percent")
	_ = addDebtCmd.MarkFlagRequired("balance")
	_ = addDebtCmd.MarkFlagRequired("min")

	addCmd.AddCommand(addCategoryCmd, addIncomeCmd, addExpenseCmd, addGoalCmd, addPaymentCmd, addDebtCmd)
	rootCmd.AddCommand(addCmd)
}

func requireName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", source.ErrEmptyName
	}
	return s, nil
}

func parseAmountFlag(name, value string) (decimal.Decimal, error) {
	d, err := source.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// dateOrToday parses a YYYY-MM-DD flag, defaulting to today.
func dateOrToday(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.Local), nil
	}
	return source.ParseDate(s)
}

func runAddCategory(cmd *cobra.Command, args []string) error {
	name, err := requireName(args[0])
	if err != nil {
		return err
	}
	budget, err := parseAmountFlag("budget", flagAddBudget)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	c, err := st.AddCategory(cmd.Context(), model.Category{Name: name, Budget: budget})
	if err != nil {
		return err
	}
	fmt.Printf("  Added category %s (%s)\n", c.Name, c.ID)
	return nil
}

func runAddIncome(cmd *cobra.Command, args []string) error {
	name, err := requireName(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmountFlag("amount", args[1])
	if err != nil {
		return err
	}
	date, err := dateOrToday(flagAddDate)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	inc, err := st.AddIncome(cmd.Context(), model.AdditionalIncome{Name: name, Amount: amount, Date: date})
	if err != nil {
		return err
	}
	fmt.Printf("  Added income %s %s on %s (%s)\n", inc.Name, money(inc.Amount), inc.Date.Format("2006-01-02"), inc.ID)
	return nil
}

func runAddExpense(cmd *cobra.Command, args []string) error {
	amount, err := parseAmountFlag("amount", args[0])
	if err != nil {
		return err
	}
	desc, err := requireName(strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("description: %w", err)
	}
	date, err := dateOrToday(flagAddDate)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	cats, err := st.Categories(ctx)
	if err != nil {
		return err
	}
	ref, warning := source.ResolveCategoryRef(flagAddCategory, cats)
	if warning != "" {
		slog.Warn("expense category does not match", "category", flagAddCategory)
		fmt.Fprintf(os.Stderr, "  warning: %s; the expense will count as uncategorized\n", warning)
	}

	e, err := st.AddExpense(ctx, model.Expense{Description: desc, Amount: amount, Category: ref, Date: date})
	if err != nil {
		return err
	}
	fmt.Printf("  Added expense %s %s on %s (%s)\n", e.Description, money(e.Amount), e.Date.Format("2006-01-02"), e.ID)
	return nil
}

func runAddGoal(cmd *cobra.Command, args []string) error {
	name, err := requireName(args[0])
	if err != nil {
		return err
	}
	target, err := parseAmountFlag("target", flagAddTarget)
	if err != nil {
		return err
	}
	current, err := parseAmountFlag("current", flagAddCurrent)
	if err != nil {
		return err
	}
	g := model.SavingsGoal{Name: name, TargetAmount: target, CurrentAmount: current}
	if flagAddDeadline != "" {
		d, err := source.ParseDate(flagAddDeadline)
		if err != nil {
			return fmt.Errorf("deadline: %w", err)
		}
		g.Deadline = &d
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err = st.AddGoal(cmd.Context(), g)
	if err != nil {
		return err
	}
	fmt.Printf("  Added goal %s %s of %s (%s)\n", g.Name, money(g.CurrentAmount), money(g.TargetAmount), g.ID)
	return nil
}

func runAddPayment(cmd *cobra.Command, args []string) error {
	desc, err := requireName(args[0])
	if err != nil {
		return err
	}
	amount, err := parseAmountFlag("amount", args[1])
	if err != nil {
		return err
	}
	due, err := source.ParseDate(flagAddDue)
	if err != nil {
		return fmt.Errorf("due: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := st.AddPayment(cmd.Context(), model.FuturePayment{Description: desc, Amount: amount, DueDate: due})
	if err != nil {
		return err
	}
	fmt.Printf("  Added payment %s %s due %s (%s)\n", p.Description, money(p.Amount), p.DueDate.Format("2006-01-02"), p.ID)
	return nil
}

func runAddDebt(cmd *cobra.Command, args []string) error {
	name, err := requireName(args[0])
	if err != nil {
		return err
	}
	balance, err := parseAmountFlag("balance", flagAddBalance)
	if err != nil {
		return err
	}
	minimum, err := parseAmountFlag("min", flagAddMinimum)
	if err != nil {
		return err
	}
	rate, err := parseAmountFlag("rate", flagAddRate)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	d, err := st.AddDebt(cmd.Context(), model.Debt{Name: name, Balance: balance, MinimumPayment: minimum, InterestRate: rate})
	if err != nil {
		return err
	}
	fmt.Printf("  Added debt %s %s, minimum %s (%s)\n", d.Name, money(d.Balance), money(d.MinimumPayment), d.ID)
	return nil
}

// kindArg maps a user-typed record kind to a store kind.
func kindArg(s string) (store.Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "ies") {
		s = strings.TrimSuffix(s, "ies") + "y"
	}
	for _, k := range store.Kinds {
		if string(k) == s || string(k)+"s" == s {
			return k, nil
		}
	}
	names := make([]string, len(store.Kinds))
	for i, k := range store.Kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown kind %q, want one of: %s", s, strings.Join(names, ", "))
}
