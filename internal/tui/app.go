// Package tui provides the interactive Bubble Tea dashboard for budgetpulse.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/cli"
	"github.com/theirongolddev/budgetpulse/internal/config"
	"github.com/theirongolddev/budgetpulse/internal/pipeline"
	"github.com/theirongolddev/budgetpulse/internal/tui/components"
	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// Store is the household storage the dashboard reads from and the setup
// wizard writes the monthly budget to.
type Store interface {
	pipeline.Source
	SetMonthlyBudget(ctx context.Context, budget decimal.Decimal) error
}

// Options configures the initial dashboard state.
type Options struct {
	Month    time.Time
	AllTime  bool
	Currency string
	Horizon  time.Duration
}

// DataLoadedMsg is sent when the first report is ready.
type DataLoadedMsg struct {
	Report   pipeline.Report
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background refresh completes.
type RefreshDataMsg struct {
	Report   pipeline.Report
	Changed  bool
	LoadTime time.Duration
	Err      error
}

// App is the root Bubble Tea model.
type App struct {
	store   Store
	watcher *pipeline.Watcher

	// Data
	report   pipeline.Report
	loaded   bool
	loadTime time.Duration
	err      error

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// Period
	month    time.Time
	allTime  bool
	currency string
	horizon  time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new dashboard over store.
func NewApp(store Store, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 5*time.Second {
		refreshInterval = 15 * time.Second
	}

	month := opts.Month
	if month.IsZero() {
		month = time.Now()
	}
	currency := opts.Currency
	if currency == "" {
		currency = cfg.General.Currency
	}

	return App{
		store:           store,
		watcher:         pipeline.NewWatcher(store),
		month:           month,
		allTime:         opts.AllTime,
		currency:        currency,
		horizon:         opts.Horizon,
		needSetup:       !config.Exists(),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.watcher, a.options()),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a App) options() pipeline.Options {
	return pipeline.Options{
		Month:   a.month,
		AllTime: a.allTime,
		Horizon: a.horizon,
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			a.scrollBy(1)
		case tea.MouseButtonLeft:
			// Tab bar is the first line.
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "q":
			return a, tea.Quit

		case "r":
			if !a.refreshing {
				a.refreshing = true
				return a, refreshDataCmd(a.watcher, a.options())
			}
			return a, nil

		case "R":
			a.autoRefresh = !a.autoRefresh
			cfg := loadConfigOrDefault()
			cfg.TUI.AutoRefresh = a.autoRefresh
			_ = config.Save(cfg)
			return a, nil

		case "[", "]":
			if a.allTime || a.refreshing {
				return a, nil
			}
			step := 1
			if key == "[" {
				step = -1
			}
			a.month = a.month.AddDate(0, step, 0)
			a.scroll = 0
			a.refreshing = true
			return a, refreshDataCmd(a.watcher, a.options())

		case "a":
			if a.refreshing {
				return a, nil
			}
			a.allTime = !a.allTime
			a.scroll = 0
			a.refreshing = true
			return a, refreshDataCmd(a.watcher, a.options())

		case "j", "down":
			a.scrollBy(1)
			return a, nil
		case "k", "up":
			a.scrollBy(-1)
			return a, nil
		case "g":
			a.scroll = 0
			return a, nil
		case "ctrl+d":
			a.scrollBy(a.halfPage())
			return a, nil
		case "ctrl+u":
			a.scrollBy(-a.halfPage())
			return a, nil

		case "left":
			a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
			return a, nil
		case "right", "tab":
			a.switchTab((a.activeTab + 1) % len(components.Tabs))
			return a, nil
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.switchTab(idx)
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		a.err = msg.Err
		if msg.Err == nil {
			a.report = msg.Report
		}

		if a.needSetup {
			a.setupVals = DefaultSetupValues(loadConfigOrDefault(), a.report.Scoped.MonthlyBudget)
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.err = msg.Err
		if msg.Err == nil {
			a.report = msg.Report
			a.loadTime = msg.LoadTime
		}
		return a, nil

	case setupSavedMsg:
		a.err = msg.err
		a.refreshing = true
		return a, refreshDataCmd(a.watcher, a.options())

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && a.setupForm == nil {
			if time.Since(a.lastRefresh) >= a.refreshInterval {
				a.refreshing = true
				cmds = append(cmds, refreshDataCmd(a.watcher, a.options()))
			}
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a *App) switchTab(idx int) {
	if idx != a.activeTab {
		a.activeTab = idx
		a.scroll = 0
	}
}

func (a *App) scrollBy(n int) {
	a.scroll += n
	if a.scroll < 0 {
		a.scroll = 0
	}
}

func (a App) halfPage() int {
	half := (a.height - scrollOverhead) / 2
	if half < minHalfPageScroll {
		half = minHalfPageScroll
	}
	return half
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		vals := a.setupVals
		a.currency = strings.TrimSpace(vals.Currency)
		theme.SetActive(vals.Theme)
		a.needSetup = false
		a.setupForm = nil
		return a, saveSetupCmd(a.store, vals)
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetpulse needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ budgetpulse"))
	b.WriteString(subtitleStyle.Render(" · Household Budget Insights"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Computing insights..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Key).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o c s b", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Scroll"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Period", []struct{ key, desc string }{
			{"[ ]", "Previous / Next month"},
			{"a", "Toggle all-time view"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Refresh data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) periodLabel() string {
	if a.allTime {
		return "All time"
	}
	return cli.FormatMonth(a.month)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	filterStr := pillStyle.Render(" ") + pillAccent.Render(a.periodLabel())
	if !a.allTime {
		filterStr += pillStyle.Render("  [ ] month")
	}
	filterStr += pillStyle.Render(" │ ") + pillAccent.Render(a.currency) + pillStyle.Render(" ")

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(filterStr)

	info := components.StatusInfo{
		Month:       a.periodLabel(),
		Revision:    a.report.Revision,
		DataAge:     fmt.Sprintf("%.0fms", float64(a.loadTime.Microseconds())/1000),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	}
	if a.err != nil {
		info.Err = a.err.Error()
	}
	statusBar := components.RenderStatusBar(w, info)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case 0:
		content = a.renderOverviewTab(cw)
	case 1:
		content = a.renderCategoriesTab(cw)
	case 2:
		content = a.renderSavingsTab(cw)
	case 3:
		content = a.renderObligationsTab(cw)
	}

	content = scrollLines(content, a.scroll)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func loadDataCmd(w *pipeline.Watcher, opts pipeline.Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r, _, err := w.Report(context.Background(), opts)
		return DataLoadedMsg{Report: r, LoadTime: time.Since(start), Err: err}
	}
}

// refreshDataCmd recomputes in the background. The watcher skips the
// database read when nothing has changed.
func refreshDataCmd(w *pipeline.Watcher, opts pipeline.Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r, changed, err := w.Report(context.Background(), opts)
		return RefreshDataMsg{Report: r, Changed: changed, LoadTime: time.Since(start), Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func scrollLines(s string, offset int) string {
	if offset <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if offset >= len(lines) {
		offset = len(lines) - 1
	}
	return strings.Join(lines[offset:], "\n")
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// One-column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
