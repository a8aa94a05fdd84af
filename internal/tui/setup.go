package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/config"
	"github.com/theirongolddev/budgetpulse/internal/source"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// SetupValues holds the answers collected by the setup wizard.
type SetupValues struct {
	Currency      string
	Theme         string
	MonthlyBudget string
}

// BudgetSetter is the part of the store the wizard writes to.
type BudgetSetter interface {
	SetMonthlyBudget(ctx context.Context, budget decimal.Decimal) error
}

type setupSavedMsg struct {
	err error
}

// DefaultSetupValues seeds the wizard from the saved config and the
// current monthly budget.
func DefaultSetupValues(cfg config.Config, budget decimal.Decimal) SetupValues {
	v := SetupValues{
		Currency: cfg.General.Currency,
		Theme:    cfg.Appearance.Theme,
	}
	if !budget.IsZero() {
		v.MonthlyBudget = budget.StringFixed(2)
	}
	return v
}

// NewSetupForm builds the first-run wizard. Answers are written into vals.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to budgetpulse").
				Description("A few settings and you're ready to go.\nRun `budgetpulse setup` anytime to change them."),
			huh.NewInput().
				Title("Monthly budget").
				Description("Your base monthly allowance before additional income.").
				Placeholder("2500.00").
				Value(&vals.MonthlyBudget).
				Validate(validateBudget),
			huh.NewInput().
				Title("Currency symbol").
				Value(&vals.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("currency symbol is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

func validateBudget(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := source.ParseAmount(s)
	if err != nil {
		return err
	}
	if d.IsNegative() {
		return errors.New("budget cannot be negative")
	}
	return nil
}

// ApplySetup persists the wizard answers: currency and theme go to the
// config file, the monthly budget goes to the store.
func ApplySetup(ctx context.Context, store BudgetSetter, vals SetupValues) error {
	cfg := loadConfigOrDefault()
	cfg.General.Currency = strings.TrimSpace(vals.Currency)
	if theme.Exists(vals.Theme) {
		cfg.Appearance.Theme = vals.Theme
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	theme.SetActive(cfg.Appearance.Theme)

	if strings.TrimSpace(vals.MonthlyBudget) == "" {
		return nil
	}
	budget, err := source.ParseAmount(strings.TrimSpace(vals.MonthlyBudget))
	if err != nil {
		return fmt.Errorf("monthly budget: %w", err)
	}
	if err := store.SetMonthlyBudget(ctx, budget); err != nil {
		return fmt.Errorf("saving monthly budget: %w", err)
	}
	return nil
}

func saveSetupCmd(store BudgetSetter, vals SetupValues) tea.Cmd {
	return func() tea.Msg {
		return setupSavedMsg{err: ApplySetup(context.Background(), store, vals)}
	}
}
