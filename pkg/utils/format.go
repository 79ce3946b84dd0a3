// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"time"
)

// FormatPrice formats a price with two decimals.
func FormatPrice(value float64) string {
	return fmt.Sprintf("%.2f", value)
}

// FormatPercent formats a percentage with two decimals.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatStrike formats a strike price, dropping a trailing .00 for
// whole-number strikes.
func FormatStrike(strike float64) string {
	if strike == float64(int64(strike)) {
		return fmt.Sprintf("%d", int64(strike))
	}
	return fmt.Sprintf("%.2f", strike)
}

// FormatDateTime formats a timestamp for display in IST.
func FormatDateTime(t time.Time) string {
	return t.In(IndiaLocation).Format("2006-01-02 15:04:05")
}

// FormatExpiry formats an expiry date for display.
func FormatExpiry(t time.Time) string {
	return t.In(IndiaLocation).Format("02-Jan-2006")
}
