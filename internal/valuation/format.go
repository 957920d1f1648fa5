package valuation

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	rupeesPerCrore = decimal.NewFromInt(10_000_000)
	rupeesPerLakh  = decimal.NewFromInt(100_000)
)

// Display is a human-readable rendering of a total value. It is derived from
// TotalValue alone and carries no pricing logic.
type Display struct {
	Formatted string  `json:"formatted"`
	Crore     float64 `json:"crore"`
	Lakh      float64 `json:"lakh"`
}

const notAvailable = "n/a"

var printer = message.NewPrinter(language.English)

// FormatAmount renders amount rounded to whole units with thousands separators,
// prefixed by currency, e.g. "PKR 33,000,000". NaN and infinities render as
// "n/a".
func FormatAmount(currency string, amount float64) string {
	if !finite(amount) {
		if currency == "" {
			return notAvailable
		}
		return currency + " " + notAvailable
	}
	whole := decimal.NewFromFloat(amount).Round(0).IntPart()
	if currency == "" {
		return printer.Sprintf("%d", whole)
	}
	return printer.Sprintf("%s %d", currency, whole)
}

// NewDisplay converts a total value into the crore/lakh figures used in the
// South Asian numbering system. Rounding is done in decimal so that a
// figure like 3.315 crore does not drift to 3.31.
func NewDisplay(currency string, amount float64) Display {
	if !finite(amount) {
		return Display{Formatted: FormatAmount(currency, amount)}
	}
	total := decimal.NewFromFloat(amount)
	return Display{
		Formatted: FormatAmount(currency, amount),
		Crore:     total.Div(rupeesPerCrore).Round(2).InexactFloat64(),
		Lakh:      total.Div(rupeesPerLakh).Round(0).InexactFloat64(),
	}
}
