package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/daemon"
	"github.com/theirongolddev/budgetpulse/internal/store"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database contents and daemon reachability",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	rev, err := st.Revision(ctx)
	if err != nil {
		return err
	}
	counts, err := st.Counts(ctx)
	if err != nil {
		return err
	}
	updated, err := st.UpdatedAt(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Database: %s\n", st.Path())
	fmt.Printf("  Revision: %d\n", rev)
	if updated.IsZero() {
		fmt.Println("  Last change: never")
	} else {
		fmt.Printf("  Last change: %s\n", updated.Local().Format(time.DateTime))
	}
	fmt.Println()

	rows := make([][]string, 0, len(store.Kinds))
	for _, k := range store.Kinds {
		rows = append(rows, []string{kindTitle(k), cli.FormatNumber(int64(counts[k]))})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Records",
		Headers: []string{"Kind", "Count"},
		Rows:    rows,
	}))

	addr := runningDaemonAddr()
	ds, err := daemon.FetchStatus(ctx, addr)
	switch {
	case err != nil:
		fmt.Printf("  Daemon: not reachable at %s\n", addr)
	case ds.Summary.Revision != rev:
		fmt.Printf("  Daemon: running at %s (rev %d, catching up)\n", addr, ds.Summary.Revision)
	default:
		fmt.Printf("  Daemon: running at %s (health %d/100)\n", addr, ds.Summary.HealthScore)
	}
	fmt.Println()
	return nil
}

func kindTitle(k store.Kind) string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
