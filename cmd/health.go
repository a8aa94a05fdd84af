package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/cli"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Health score breakdown and recommendations",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	r, err := loadReport(cmd.Context(), configHorizon())
	if err != nil {
		return err
	}
	bd := r.Breakdown

	fmt.Println()
	fmt.Println(cli.RenderTitle("FINANCIAL HEALTH  " + periodTitle(r)))
	fmt.Println()
	fmt.Printf("  Score: %s\n\n", cli.RenderScore(bd.Score))

	rows := [][]string{
		{"Expense ratio", cli.FormatPercent(bd.ExpenseRatio), ""},
		{"Savings rate", cli.FormatPercent(bd.SavingsRate), ""},
		{"Debt to income", cli.FormatPercent(bd.DebtToIncome), ""},
		{"---"},
		{"Base", "", fmt.Sprintf("%d", bd.Base)},
	}
	for _, f := range bd.Factors {
		rows = append(rows, []string{f.Rule, "", fmt.Sprintf("%+d", f.Points)})
	}
	rows = append(rows, []string{"---"})
	if bd.Unclamped != bd.Score {
		rows = append(rows, []string{"Before clamping", "", fmt.Sprintf("%d", bd.Unclamped)})
	}
	rows = append(rows, []string{"Score", "", fmt.Sprintf("%d", bd.Score)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Rule", "Value", "Points"},
		Rows:    rows,
	}))

	printRecommendations(r.Insights.Recommendations)
	return nil
}
