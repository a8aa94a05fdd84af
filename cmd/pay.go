package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/store"

	"github.com/spf13/cobra"
)

var payCmd = &cobra.Command{
	Use:   "pay <payment-id>",
	Short: "Mark a future payment as paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runPay,
}

var contributeCmd = &cobra.Command{
	Use:   "contribute <goal-id> <amount>",
	Short: "Add money to a savings goal",
	Args:  cobra.ExactArgs(2),
	RunE:  runContribute,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <kind> <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a record (category, income, expense, goal, payment, debt)",
	Args:    cobra.ExactArgs(2),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(payCmd, contributeCmd, deleteCmd)
}

func runPay(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.MarkPaymentPaid(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no payment with id %s", args[0])
		}
		return err
	}
	fmt.Printf("  Marked payment %s as paid\n", args[0])
	return nil
}

func runContribute(cmd *cobra.Command, args []string) error {
	amount, err := parseAmountFlag("amount", args[1])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	g, err := st.Contribute(cmd.Context(), args[0], amount)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no savings goal with id %s", args[0])
		}
		return err
	}
	fmt.Printf("  %s: %s of %s\n", g.Name, money(g.CurrentAmount), money(g.TargetAmount))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.Delete(cmd.Context(), kind, args[1]); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no %s with id %s", kind, args[1])
		}
		return err
	}
	fmt.Printf("  Deleted %s %s\n", kind, args[1])
	return nil
}
