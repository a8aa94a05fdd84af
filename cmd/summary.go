package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Budget summary with balance, obligations and health score",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	r, err := loadReport(cmd.Context(), configHorizon())
	if err != nil {
		return err
	}
	in := r.Insights

	fmt.Println()
	fmt.Println(cli.RenderTitle("BUDGET  " + periodTitle(r)))
	fmt.Println()

	extra := in.TotalIncome.Sub(r.Scoped.MonthlyBudget)
	rows := [][]string{
		{"Monthly Budget", money(r.Scoped.MonthlyBudget)},
		{"Additional Income", money(extra)},
		{"Total Income", money(in.TotalIncome)},
		{"Expenses", money(in.TotalExpenses)},
		{"---"},
		{"Available Balance", money(in.AvailableBalance)},
		{"Upcoming Payments", money(in.UpcomingPayments)},
		{"Debt Minimums", money(in.TotalDebtPayments)},
		{"Total Obligations", money(in.TotalObligations)},
		{"---"},
		{"Savings", fmt.Sprintf("%s of %s (%s)",
			money(in.SavingsProgress.Total),
			money(in.SavingsProgress.Target),
			cli.FormatPercent(in.SavingsProgress.Percentage))},
		{"Health Score", fmt.Sprintf("%d/100  %s", in.HealthScore, cli.ScoreLabel(in.HealthScore))},
	}

	if r.Comparison.HasPrevious {
		c := r.Comparison
		rows = append(rows,
			[]string{"---"},
			[]string{"Income vs prev", cli.FormatDelta(c.IncomeDelta, currency())},
			[]string{"Expenses vs prev", cli.FormatDelta(c.ExpensesDelta, currency())},
			[]string{"Balance vs prev", cli.FormatDelta(c.BalanceDelta, currency())},
			[]string{"Score vs prev", cli.FormatScoreDelta(c.ScoreDelta)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	printRecommendations(in.Recommendations)
	return nil
}

func printRecommendations(recs []model.Recommendation) {
	if len(recs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("  Recommendations")
	for _, rec := range recs {
		fmt.Println(cli.RenderRecommendation(rec))
	}
	fmt.Println()
}
