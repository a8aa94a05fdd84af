// Package cmd implements the budgetpulse CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/config"
	"github.com/theirongolddev/budgetpulse/internal/logging"
	"github.com/theirongolddev/budgetpulse/internal/pipeline"
	"github.com/theirongolddev/budgetpulse/internal/store"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDB      string
	flagMonth   string
	flagAllTime bool
	flagQuiet   bool
	flagVerbose bool
)

// appConfig is loaded once per invocation in the persistent pre-run.
var appConfig = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "budgetpulse",
	Short: "Household budget insights",
	Long: "Track a household budget and see where the money goes: balance,\n" +
		"category usage, savings progress, obligations and a health score.",
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Household database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagMonth, "month", "m", "", "Month to report on, YYYY-MM (default current month)")
	rootCmd.PersistentFlags().BoolVarP(&flagAllTime, "all-time", "A", false, "Report on every record instead of one month")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func preRun(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	logging.Setup(flagVerbose, flagQuiet)

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("config unreadable, using defaults", "path", config.Path(), "err", err)
	}
	appConfig = cfg
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return config.GetDBPath(appConfig)
}

func openStore() (*store.Store, error) {
	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	slog.Debug("store opened", "path", path)
	return st, nil
}

func currency() string {
	return appConfig.General.Currency
}

func money(v decimal.Decimal) string {
	return cli.FormatMoney(v, currency())
}

func configHorizon() time.Duration {
	days := appConfig.General.HorizonDays
	if days < 1 {
		return pipeline.DefaultHorizon
	}
	return time.Duration(days) * 24 * time.Hour
}

// parseMonth reads a YYYY-MM month. An empty string means the current month.
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t, nil
}

func reportOptions(horizon time.Duration) (pipeline.Options, error) {
	month, err := parseMonth(flagMonth)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{Month: month, AllTime: flagAllTime, Horizon: horizon}, nil
}

// loadReport is the shared read path used by the reporting commands.
func loadReport(ctx context.Context, horizon time.Duration) (pipeline.Report, error) {
	opts, err := reportOptions(horizon)
	if err != nil {
		return pipeline.Report{}, err
	}

	st, err := openStore()
	if err != nil {
		return pipeline.Report{}, err
	}
	defer func() { _ = st.Close() }()

	start := time.Now()
	r, _, err := pipeline.NewWatcher(st).Report(ctx, opts)
	if err != nil {
		return pipeline.Report{}, err
	}
	slog.Debug("report computed",
		"revision", r.Revision,
		"month", r.Month.Format("2006-01"),
		"all_time", r.AllTime,
		"expenses", len(r.Scoped.Expenses),
		"elapsed", time.Since(start))
	return r, nil
}

func periodTitle(r pipeline.Report) string {
	if r.AllTime {
		return "All time"
	}
	return cli.FormatMonth(r.Month)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
