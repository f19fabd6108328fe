package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Swedish)

// FormatCurrency renders an amount as a locale-grouped integer with the
// currency suffix, matching the kronor granularity of the aggregation. The
// fraction is rounded away, never shown.
func FormatCurrency(amount decimal.Decimal) string {
	return printer.Sprintf("%d kr", amount.Round(0).IntPart())
}

// FormatNumber renders a quantity or CO2 value, keeping up to two decimal
// places and dropping a zero fraction.
func FormatNumber(value decimal.Decimal) string {
	rounded := value.Round(2)
	if rounded.IsInteger() {
		return printer.Sprintf("%d", rounded.IntPart())
	}

	float, _ := rounded.Float64()
	return printer.Sprintf("%.2f", float)
}
