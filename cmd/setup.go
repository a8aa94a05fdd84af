package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/config"
	"github.com/theirongolddev/budgetpulse/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	budget, err := st.MonthlyBudget(cmd.Context())
	if err != nil {
		return err
	}

	vals := tui.DefaultSetupValues(appConfig, budget)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := tui.ApplySetup(cmd.Context(), st, vals); err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Printf("  Household database: %s\n", st.Path())
	fmt.Println("  Run `budgetpulse setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
