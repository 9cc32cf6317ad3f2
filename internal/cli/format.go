// Package cli provides the command-line interface for the trade journal.
package cli

import (
	"fmt"
	"strings"
)

// FormatPrice formats a price, trimming trailing zeros past two
// decimal places so futures quarter-points stay readable.
func FormatPrice(price float64) string {
	s := fmt.Sprintf("%.4f", price)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "00"
	} else if len(s) > 0 && len(s)-strings.Index(s, ".") == 2 {
		s += "0"
	}
	return s
}

// FormatMoney formats a dollar amount with two decimal places.
func FormatMoney(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// FormatPnL formats P&L with an explicit sign on gains.
func FormatPnL(pnl float64) string {
	formatted := FormatMoney(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatWinRate renders wins over total as a percentage.
func FormatWinRate(wins, total int) string {
	if total == 0 {
		return "–"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(wins)/float64(total))
}

// FormatStreakHistory renders a W/L/B result list as a sparkline-ish
// string, newest last.
func FormatStreakHistory(history []string) string {
	return strings.Join(history, " ")
}
