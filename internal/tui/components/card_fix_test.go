package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Errorf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i, line := range lines {
		if i < shortLines {
			continue
		}
		if !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI codes, padding would be unstyled", i)
		}
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")

	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		if w := lipgloss.Width(line); w != want {
			t.Errorf("line %d width = %d, want %d", i, w, want)
		}
	}
	if want != 50 {
		t.Errorf("row width = %d, want 50", want)
	}
}

func TestMetricCardRowSumsToWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Income", Value: "$2,000.00"},
		{Label: "Spent", Value: "$250.00", Delta: "+$50.00 vs Feb"},
		{Label: "Score", Value: "90/100", Tone: theme.Active.OK},
	}, 91)
	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 91 {
			t.Errorf("line %d width = %d, want 91", i, w)
		}
	}
}

func TestLayoutRow(t *testing.T) {
	got := LayoutRow(10, 3)
	if len(got) != 3 || got[0] != 4 || got[1] != 3 || got[2] != 3 {
		t.Errorf("LayoutRow(10, 3) = %v, want [4 3 3]", got)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow with n=0 should be nil")
	}
}

func TestTabBarWidthMatchesVisualWidth(t *testing.T) {
	for active := range Tabs {
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
			if i < len(Tabs)-1 {
				want++
			}
		}
		bar := RenderTabBar(active, 0)
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: bar width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('b') != 3 || TabIdxByKey('o') != 0 || TabIdxByKey('z') != -1 {
		t.Error("TabIdxByKey mapping is off")
	}
}

func TestDayChart(t *testing.T) {
	values := make([]float64, 30)
	values[4] = 100
	values[9] = 50

	out := DayChart(values, theme.Active.Spend, 120, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 { // 4 rows + axis + labels
		t.Fatalf("got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "100") {
		t.Errorf("top row should carry the peak label: %q", lines[0])
	}
	if !strings.Contains(lines[5], "15") {
		t.Errorf("x-axis labels missing day 15: %q", lines[5])
	}

	// Too narrow for one column per day.
	if narrow := DayChart(values, theme.Active.Spend, 40, 4); strings.Contains(narrow, "\n") {
		t.Error("narrow chart should fall back to a one-line sparkline")
	}
}

func TestUsageBarOverBudget(t *testing.T) {
	bar := UsageBar("Food", 150, 10, 20)
	if !strings.Contains(bar, "150%") {
		t.Errorf("bar should show the real percentage: %q", bar)
	}
	if w := lipgloss.Width(bar); w != 10+1+20+1+5 {
		t.Errorf("bar width = %d", w)
	}
}
