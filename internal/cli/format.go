// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount with the currency symbol, two decimals and
// comma separators. e.g., 1234.5 -> "$1,234.50", -20 -> "-$20.00"
func FormatMoney(d decimal.Decimal, symbol string) string {
	d = d.Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = FormatNumber(n)
	}

	out := symbol + whole + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatMoneyShort drops the cents and abbreviates large amounts.
// e.g., 1234 -> "$1.2K", 950 -> "$950"
func FormatMoneyShort(d decimal.Decimal, symbol string) string {
	f := d.InexactFloat64()
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	switch {
	case f >= 1_000_000:
		return fmt.Sprintf("%s%s%.1fM", sign, symbol, f/1_000_000)
	case f >= 10_000:
		return fmt.Sprintf("%s%s%.0fK", sign, symbol, f/1_000)
	case f >= 1_000:
		return fmt.Sprintf("%s%s%.1fK", sign, symbol, f/1_000)
	default:
		return fmt.Sprintf("%s%s%.0f", sign, symbol, f)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a value already expressed in percent.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a money change with an explicit sign.
func FormatDelta(delta decimal.Decimal, symbol string) string {
	if delta.IsNegative() {
		return FormatMoney(delta, symbol)
	}
	return "+" + FormatMoney(delta, symbol)
}

// FormatScoreDelta formats a health score change, e.g. "+5" or "-10".
func FormatScoreDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

// ScoreLabel names the band a health score falls in.
func ScoreLabel(score int) string {
	switch {
	case score >= 80:
		return "Good"
	case score >= 50:
		return "Fair"
	default:
		return "Needs attention"
	}
}

// FormatMonth formats a month, e.g. "March 2026".
func FormatMonth(t time.Time) string {
	return t.Format("January 2006")
}

// FormatDate formats a calendar date, e.g. "2026-03-05".
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDue describes a due date relative to now, e.g. "in 3d", "today", "5d overdue".
func FormatDue(due, now time.Time) string {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(dueDay.Sub(nowDay).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days > 1:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd overdue", -days)
	}
}
