package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show or set the monthly budget",
	RunE:  runBudgetShow,
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the monthly budget",
	RunE:  runBudgetShow,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

var flagBudgetCategory string

func init() {
	budgetSetCmd.Flags().StringVarP(&flagBudgetCategory, "category", "c", "", "Set this category's ceiling instead (name or ID)")
	budgetCmd.AddCommand(budgetShowCmd, budgetSetCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetShow(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	b, err := st.MonthlyBudget(cmd.Context())
	if err != nil {
		return err
	}
	if b.IsZero() {
		fmt.Println("  Monthly budget: not set")
		fmt.Println("  Set it with: budgetpulse budget set <amount>")
		return nil
	}
	fmt.Printf("  Monthly budget: %s\n", money(b))
	return nil
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	amount, err := parseAmountFlag("amount", args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if flagBudgetCategory != "" {
		if err := st.SetCategoryBudget(cmd.Context(), flagBudgetCategory, amount); err != nil {
			return fmt.Errorf("category %q: %w", flagBudgetCategory, err)
		}
		fmt.Printf("  Category %s budget set to %s\n", flagBudgetCategory, money(amount))
		return nil
	}

	if err := st.SetMonthlyBudget(cmd.Context(), amount); err != nil {
		return err
	}
	fmt.Printf("  Monthly budget set to %s\n", money(amount))
	return nil
}
