package format

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencyFormatter renders money using the conventions of one locale.
type CurrencyFormatter struct {
	tag     language.Tag
	printer *message.Printer
}

// NewCurrencyFormatter parses locale (a BCP 47 tag such as "en-GB") and
// returns a formatter for it.
func NewCurrencyFormatter(locale string) (CurrencyFormatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return CurrencyFormatter{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return CurrencyFormatter{tag: tag, printer: message.NewPrinter(tag)}, nil
}

// Locale returns the formatter's language tag.
func (f CurrencyFormatter) Locale() language.Tag {
	return f.tag
}

// Format returns amount with the locale's currency symbol, digit grouping and
// the currency's standard number of fraction digits (e.g. "£1,234.50").
func (f CurrencyFormatter) Format(unit currency.Unit, amount float64) string {
	scale, _ := currency.Standard.Rounding(unit)
	return f.printer.Sprintf("%v%v", currency.Symbol(unit), number.Decimal(amount, number.Scale(scale)))
}

// Symbol returns the locale's symbol for unit, e.g. "$" for USD in en-US.
func (f CurrencyFormatter) Symbol(unit currency.Unit) string {
	return f.printer.Sprint(currency.Symbol(unit))
}
