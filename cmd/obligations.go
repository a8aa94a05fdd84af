package cmd

import (
	"fmt"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/cli"

	"github.com/spf13/cobra"
)

var flagHorizonDays int

var obligationsCmd = &cobra.Command{
	Use:     "obligations",
	Aliases: []string{"bills"},
	Short:   "Upcoming unpaid payments and debt minimums",
	RunE:    runObligations,
}

func init() {
	obligationsCmd.Flags().IntVar(&flagHorizonDays, "horizon", 0, "Days ahead to list payments (default from config)")
	rootCmd.AddCommand(obligationsCmd)
}

func runObligations(cmd *cobra.Command, _ []string) error {
	horizon := configHorizon()
	if flagHorizonDays > 0 {
		horizon = time.Duration(flagHorizonDays) * 24 * time.Hour
	}

	r, err := loadReport(cmd.Context(), horizon)
	if err != nil {
		return err
	}
	in := r.Insights
	now := time.Now()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("OBLIGATIONS  Next %dd", int(horizon.Hours()/24))))
	fmt.Println()

	if len(r.Upcoming) == 0 {
		fmt.Println("  No unpaid payments due.")
		fmt.Println()
	} else {
		rows := make([][]string, 0, len(r.Upcoming))
		for _, p := range r.Upcoming {
			rows = append(rows, []string{
				truncate(p.Description, 24),
				money(p.Amount),
				cli.FormatDate(p.DueDate),
				cli.FormatDue(p.DueDate, now),
				p.ID,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Payments",
			Headers: []string{"Description", "Amount", "Due", "When", "ID"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	if len(r.Scoped.Debts) > 0 {
		rows := make([][]string, 0, len(r.Scoped.Debts))
		for _, d := range r.Scoped.Debts {
			rows = append(rows, []string{
				truncate(d.Name, 24),
				money(d.Balance),
				money(d.MinimumPayment),
				d.InterestRate.StringFixed(2) + "%",
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Debts",
			Headers: []string{"Name", "Balance", "Minimum", "Rate"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Totals", ""},
		Rows: [][]string{
			{"Unpaid payments", money(in.UpcomingPayments)},
			{"Debt minimums", money(in.TotalDebtPayments)},
			{"---"},
			{"Total obligations", money(in.TotalObligations)},
		},
	}))
	return nil
}
