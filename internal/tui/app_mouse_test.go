package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/budgetpulse/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}

		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("active=%d x past last tab -> %d, want -1", active, got)
		}
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{
		len("Overview"),
		len("Categories"),
		len("Savings"),
		len("Obligations"),
	}

	w := nameWidths[tabIdx] + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx {
		w += 2 // "[" and "]" around the shortcut
	}
	return w
}

func TestMouseClickSwitchesTab(t *testing.T) {
	a := App{loaded: true, activeTab: 0}
	x := tabWidthForTest(0, 0) + 1 + tabWidthForTest(1, 0)/2

	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft})
	if got := m.(App).activeTab; got != 1 {
		t.Fatalf("activeTab = %d, want 1", got)
	}

	// Clicks below the tab bar are ignored.
	m, _ = m.(App).Update(tea.MouseMsg{X: 1, Y: 3, Button: tea.MouseButtonLeft})
	if got := m.(App).activeTab; got != 1 {
		t.Fatalf("activeTab after content click = %d, want 1", got)
	}
}

func TestKeyNavigation(t *testing.T) {
	a := App{loaded: true}

	press := func(m App, key string) App {
		var msg tea.KeyMsg
		switch key {
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		out, _ := m.Update(msg)
		return out.(App)
	}

	a = press(a, "b")
	if a.activeTab != 3 {
		t.Fatalf("after b: activeTab = %d, want 3", a.activeTab)
	}
	a = press(a, "right")
	if a.activeTab != 0 {
		t.Fatalf("after right: activeTab = %d, want 0 (wraps)", a.activeTab)
	}
	a = press(a, "left")
	if a.activeTab != 3 {
		t.Fatalf("after left: activeTab = %d, want 3 (wraps)", a.activeTab)
	}

	a = press(a, "j")
	a = press(a, "j")
	if a.scroll != 2 {
		t.Fatalf("scroll = %d, want 2", a.scroll)
	}
	a = press(a, "c")
	if a.scroll != 0 {
		t.Fatalf("switching tabs should reset scroll, got %d", a.scroll)
	}
	a = press(a, "k")
	if a.scroll != 0 {
		t.Fatalf("scroll went negative: %d", a.scroll)
	}

	a = press(a, "?")
	if !a.showHelp {
		t.Fatal("? should open help")
	}
	a = press(a, "x")
	if a.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestScrollLines(t *testing.T) {
	s := "a\nb\nc"
	if got := scrollLines(s, 1); got != "b\nc" {
		t.Errorf("scrollLines(1) = %q", got)
	}
	if got := scrollLines(s, 10); got != "c" {
		t.Errorf("scrollLines past end = %q, want last line", got)
	}
	if got := padHeight(truncateHeight("a\nb\nc\nd", 2), 4); strings.Count(got, "\n") != 3 {
		t.Errorf("truncate+pad = %q", got)
	}
}

func TestPeriodLabel(t *testing.T) {
	a := App{month: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)}
	if got := a.periodLabel(); got != "March 2026" {
		t.Errorf("periodLabel = %q", got)
	}
	a.allTime = true
	if got := a.periodLabel(); got != "All time" {
		t.Errorf("periodLabel all-time = %q", got)
	}
}
