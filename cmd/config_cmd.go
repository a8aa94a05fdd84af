package cmd

import (
	"fmt"
	"net/url"

	"github.com/theirongolddev/budgetpulse/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appConfig

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Warning: %v\n", err)
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:     %s\n", dbPath())
	fmt.Printf("    Currency:     %s\n", cfg.General.Currency)
	fmt.Printf("    Horizon days: %d\n", cfg.General.HorizonDays)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %ds\n", cfg.Daemon.IntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v\n", cfg.TUI.AutoRefresh)
	fmt.Printf("    Interval:     %ds\n", cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Notify]")
	if u := config.GetAMQPURL(cfg); u != "" {
		fmt.Printf("    AMQP URL:    %s\n", maskURL(u))
		fmt.Printf("    Exchange:    %s\n", cfg.Notify.Exchange)
		fmt.Printf("    Routing key: %s\n", cfg.Notify.RoutingKey)
	} else {
		fmt.Println("    AMQP: not configured")
	}
	fmt.Println()

	fmt.Println("  Run `budgetpulse setup` to reconfigure.")
	return nil
}

// maskURL hides the password in a broker URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
