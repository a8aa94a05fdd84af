package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/cli"

	"github.com/spf13/cobra"
)

var flagDailyAll bool

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Day-by-day spending for the month",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().BoolVar(&flagDailyAll, "all", false, "Include days with no spending")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	if flagAllTime {
		return errors.New("daily spending is per month; drop --all-time")
	}

	r, err := loadReport(cmd.Context(), configHorizon())
	if err != nil {
		return err
	}
	if len(r.Scoped.Expenses) == 0 {
		fmt.Printf("\n  No expenses in %s.\n", periodTitle(r))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DAILY SPENDING  " + periodTitle(r)))
	fmt.Println()

	values := make([]float64, len(r.Daily))
	rows := make([][]string, 0, len(r.Daily))
	for i, d := range r.Daily {
		values[i] = d.Total.InexactFloat64()
		if d.Total.IsZero() && !flagDailyAll {
			continue
		}
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			d.Date.Format("Mon"),
			money(d.Total),
		})
	}

	fmt.Printf("  %s\n\n", cli.RenderSparkline(values))

	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"Total", "", money(r.Insights.TotalExpenses)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Spent"},
		Rows:    rows,
	}))
	return nil
}
