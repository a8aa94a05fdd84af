package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = max(0, min(idx, len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// DayChart renders one column per day of a month, scaled to the busiest
// day, with a y-axis showing the peak and a day-number x-axis. Days past
// the width budget fall back to a sparkline.
func DayChart(values []float64, color lipgloss.Color, width, height int) string {
	n := len(values)
	if n == 0 {
		return ""
	}
	if height < 3 {
		return Sparkline(values, color)
	}

	t := theme.Active

	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}

	yLabel := formatChartLabel(peak)
	yLabelW := max(len(yLabel), 1) + 1
	chartW := width - yLabelW - 1

	// Each day needs at least one column plus a gap.
	colW := chartW/n - 1
	if colW < 1 {
		return Sparkline(values, color)
	}
	colW = min(colW, 3)

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	gapStyle := lipgloss.NewStyle().Background(t.Surface)

	scale := peak
	if scale == 0 {
		scale = 1
	}
	eighths := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = yLabel
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))

		for i, v := range values {
			if i > 0 {
				b.WriteString(gapStyle.Render(" "))
			}
			// Height of this bar in eighths of a row.
			units := int(math.Round(v / scale * float64(height*8)))
			cell := units - (row-1)*8
			switch {
			case cell >= 8:
				b.WriteString(barStyle.Render(strings.Repeat("█", colW)))
			case cell > 0:
				b.WriteString(barStyle.Render(strings.Repeat(string(eighths[cell]), colW)))
			default:
				b.WriteString(gapStyle.Render(strings.Repeat(" ", colW)))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*colW + (n - 1)
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	// Label day 1 and every fifth day after it.
	labels := []byte(strings.Repeat(" ", axisLen))
	for day := 1; day <= n; day++ {
		if day != 1 && day%5 != 0 {
			continue
		}
		lbl := strconv.Itoa(day)
		pos := (day - 1) * (colW + 1)
		if pos+len(lbl) > axisLen {
			break
		}
		copy(labels[pos:], lbl)
	}
	b.WriteString(gapStyle.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(labels), " ")))

	return b.String()
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e4:
		return fmt.Sprintf("%.0fk", v/1e3)
	case v >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
