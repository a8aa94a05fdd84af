package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/cli"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cats"},
	Short:   "Spending against budget per category",
	RunE:    runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	r, err := loadReport(cmd.Context(), configHorizon())
	if err != nil {
		return err
	}

	cats := r.Insights.Categories
	if len(cats) == 0 {
		fmt.Println("\n  No categories yet.")
		fmt.Println("  Add one with: budgetpulse add category <name> --budget <amount>")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CATEGORIES  " + periodTitle(r)))
	fmt.Println()

	rows := make([][]string, 0, len(cats)+2)
	for _, c := range cats {
		budget := "no limit"
		remaining := "-"
		if c.Budget.IsPositive() {
			budget = money(c.Budget)
			remaining = money(c.Remaining)
		}
		rows = append(rows, []string{
			truncate(c.Name, 20),
			budget,
			money(c.Spent),
			remaining,
			cli.FormatPercent(c.PercentUsed),
			cli.RenderUsageBar(c.PercentUsed, 16),
		})
	}
	if r.Uncategorized.IsPositive() {
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"(uncategorized)", "", money(r.Uncategorized), "", "", ""})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Budget", "Spent", "Remaining", "Used", ""},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}
