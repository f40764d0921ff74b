package handlers

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a monetary amount with its currency symbol for the
// overlay, e.g. "$1,234.56". Unknown currency codes fall back to USD.
func FormatAmount(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	value, _ := amount.Float64()
	return printer.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}
