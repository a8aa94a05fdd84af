package cmd

import (
	"fmt"

	"github.com/theirongolddev/budgetpulse/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	month, err := parseMonth(flagMonth)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	// Background fills need ANSI output even when the profile detects none.
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(st, tui.Options{
		Month:    month,
		AllTime:  flagAllTime,
		Currency: currency(),
		Horizon:  configHorizon(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
