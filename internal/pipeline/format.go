package pipeline

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatAmount renders a whole-unit amount with thousands separators.
func formatAmount(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// formatPercent renders a magnitude with two decimals and thousands
// separators.
func formatPercent(v float64) string {
	return printer.Sprintf("%.2f", math.Abs(v))
}
