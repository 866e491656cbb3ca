package exporter

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// reportPrinter groups thousands in human-readable reports
var reportPrinter = message.NewPrinter(language.English)

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatNumber formats a float64 value with the shortest exact representation,
// so a written table loads back unchanged
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatBool formats a boolean value
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatMoney renders an amount with grouped thousands, e.g. 1,234,567.89
func formatMoney(f float64) string {
	return reportPrinter.Sprintf("%.2f", f)
}

// formatCount renders an integer with grouped thousands
func formatCount(n int64) string {
	return reportPrinter.Sprintf("%d", n)
}
