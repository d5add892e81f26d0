// Package currency defines the supported currencies and converts amounts
// into the reference currency using a static rate table.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/shopspring/decimal"
	xcurrency "golang.org/x/text/currency"
)

// ErrUnknownCurrency is returned when a code is not one of the supported currencies.
var ErrUnknownCurrency = errors.New("unknown currency")

// Code is an ISO 4217 currency code from the closed set of supported currencies.
type Code string

// Supported currencies.
const (
	USD Code = constants.CurrencyUSD
	EUR Code = constants.CurrencyEUR
	GBP Code = constants.CurrencyGBP
)

// Reference is the currency every amount is converted to before estimation.
const Reference = USD

// Default is the currency selected before the user picks one.
const Default = USD

// Codes lists the supported currencies in display order.
func Codes() []Code {
	return []Code{USD, EUR, GBP}
}

// ParseCode parses a currency code case-insensitively. The empty string maps
// to Default.
func ParseCode(s string) (Code, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(s))
	if trimmed == "" {
		return Default, nil
	}
	code := Code(trimmed)
	if !code.Valid() {
		return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownCurrency, s, joinCodes(Codes()))
	}
	return code, nil
}

// Valid reports whether c is a supported currency.
func (c Code) Valid() bool {
	switch c {
	case USD, EUR, GBP:
		return true
	}
	return false
}

// String returns the ISO code.
func (c Code) String() string {
	return string(c)
}

// Unit returns the x/text currency unit used for locale-aware display.
func (c Code) Unit() xcurrency.Unit {
	return xcurrency.MustParseISO(string(c))
}

// RateTable maps each supported currency to its value in the reference
// currency. It is built once and never modified, so it is safe to share.
type RateTable struct {
	rates map[Code]decimal.Decimal
}

// DefaultRates returns the built-in illustrative rate table.
func DefaultRates() RateTable {
	return RateTable{rates: map[Code]decimal.Decimal{
		USD: decimal.RequireFromString(constants.DefaultRateUSD),
		EUR: decimal.RequireFromString(constants.DefaultRateEUR),
		GBP: decimal.RequireFromString(constants.DefaultRateGBP),
	}}
}

// NewRateTable validates rates and returns a table. Every supported currency
// must have a strictly positive rate and the reference currency must map to 1.
func NewRateTable(rates map[Code]decimal.Decimal) (RateTable, error) {
	table := RateTable{rates: make(map[Code]decimal.Decimal, len(rates))}
	for code, rate := range rates {
		if !code.Valid() {
			return RateTable{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
		}
		table.rates[code] = rate
	}

	var missing []Code
	for _, code := range Codes() {
		rate, ok := table.rates[code]
		if !ok {
			missing = append(missing, code)
			continue
		}
		if !rate.IsPositive() {
			return RateTable{}, fmt.Errorf("rate for %s must be positive, got %s", code, rate)
		}
	}
	if len(missing) > 0 {
		return RateTable{}, fmt.Errorf("missing rates for %s", joinCodes(missing))
	}
	if !table.rates[Reference].Equal(decimal.NewFromInt(1)) {
		return RateTable{}, fmt.Errorf("rate for reference currency %s must be 1, got %s", Reference, table.rates[Reference])
	}
	return table, nil
}

// Rate returns the rate for code. Codes outside the supported set return zero.
func (t RateTable) Rate(code Code) decimal.Decimal {
	return t.rates[code]
}

// ToReference converts amount in the given currency to the reference currency.
// The multiplication is exact, so conversion is linear in amount.
func (t RateTable) ToReference(amount decimal.Decimal, code Code) decimal.Decimal {
	return amount.Mul(t.Rate(code))
}

func joinCodes(codes []Code) string {
	parts := make([]string, 0, len(codes))
	for _, code := range codes {
		parts = append(parts, string(code))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
