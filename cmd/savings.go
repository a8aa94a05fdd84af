package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/cli"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Savings goals and progress",
	RunE:  runSavings,
}

func init() {
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(cmd *cobra.Command, _ []string) error {
	r, err := loadReport(cmd.Context(), configHorizon())
	if err != nil {
		return err
	}

	goals := r.Scoped.SavingsGoals
	if len(goals) == 0 {
		fmt.Println("\n  No savings goals yet.")
		fmt.Println("  Add one with: budgetpulse add goal <name> --target <amount>")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS GOALS"))
	fmt.Println()

	now := time.Now()
	hundred := decimal.NewFromInt(100)

	rows := make([][]string, 0, len(goals)+2)
	for _, g := range goals {
		pct := 0.0
		if g.TargetAmount.IsPositive() {
			pct = g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).InexactFloat64()
		}
		deadline := "-"
		if g.Deadline != nil {
			deadline = cli.FormatDate(*g.Deadline) + " (" + cli.FormatDue(*g.Deadline, now) + ")"
		}
		rows = append(rows, []string{
			truncate(g.Name, 20),
			money(g.CurrentAmount),
			money(g.TargetAmount),
			cli.FormatPercent(pct),
			deadline,
			g.ID,
		})
	}

	sp := r.Insights.SavingsProgress
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", money(sp.Total), money(sp.Target), cli.FormatPercent(sp.Percentage), "", ""})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Goal", "Saved", "Target", "Progress", "Deadline", "ID"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
