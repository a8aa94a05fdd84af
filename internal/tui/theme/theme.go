// Package theme defines color themes for the budgetpulse dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps dashboard roles to colors. The status roles run from OK
// through Over and color budget usage and health.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and panels
	SurfaceHover lipgloss.Color // active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	OK    lipgloss.Color
	Near  lipgloss.Color
	Warn  lipgloss.Color
	Over  lipgloss.Color
	Spend lipgloss.Color // spending charts
	Key   lipgloss.Color // key hints
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default, a warm paper-toned dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	OK:           lipgloss.Color("#879A39"),
	Near:         lipgloss.Color("#D0A215"),
	Warn:         lipgloss.Color("#DA702C"),
	Over:         lipgloss.Color("#D14D41"),
	Spend:        lipgloss.Color("#4385BE"),
	Key:          lipgloss.Color("#24837B"),
}

// TokyoNight is a cool blue theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	OK:           lipgloss.Color("#9ECE6A"),
	Near:         lipgloss.Color("#E0AF68"),
	Warn:         lipgloss.Color("#FF9E64"),
	Over:         lipgloss.Color("#F7768E"),
	Spend:        lipgloss.Color("#7AA2F7"),
	Key:          lipgloss.Color("#7DCFFF"),
}

// Terminal sticks to the 16 ANSI colors. Near and Warn share yellow.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	OK:           lipgloss.Color("2"),
	Near:         lipgloss.Color("3"),
	Warn:         lipgloss.Color("11"),
	Over:         lipgloss.Color("1"),
	Spend:        lipgloss.Color("4"),
	Key:          lipgloss.Color("6"),
}

// All lists the themes offered by setup, default first.
var All = []Theme{FlexokiDark, TokyoNight, Terminal}

// ByName returns the named theme, or FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Names returns theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SetActive switches the active theme.
func SetActive(name string) {
	Active = ByName(name)
}

// Tone maps a budget usage percentage to a status color.
func (t Theme) Tone(pct float64) lipgloss.Color {
	switch {
	case pct > 100:
		return t.Over
	case pct >= 90:
		return t.Warn
	case pct >= 75:
		return t.Near
	default:
		return t.OK
	}
}

// ScoreTone maps a health score to a status color.
func (t Theme) ScoreTone(score int) lipgloss.Color {
	switch {
	case score >= 80:
		return t.OK
	case score >= 50:
		return t.Near
	default:
		return t.Over
	}
}
