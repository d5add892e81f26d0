// Package input validates and parses the donation amount a user types.
package input

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when raw text is not an acceptable amount.
// Callers keep their previous input when they see it.
var ErrInvalidInput = errors.New("invalid input")

// numberPattern accepts an optional integer part optionally followed by a
// decimal point and at most two fraction digits.
var numberPattern = regexp.MustCompile(`^(\d*)(?:\.(\d{0,2}))?$`)

// Amount is a normalized, non-negative donation amount with at most two
// decimal places.
type Amount struct {
	Value decimal.Decimal
	// Placeholder is set when the input was empty and Value is the default.
	Placeholder bool
}

// String renders the amount with its significant decimals, e.g. "100.5".
func (a Amount) String() string {
	return a.Value.String()
}

// Float64 returns the amount as a float64.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// Normalizer parses raw text into an Amount.
type Normalizer struct {
	DefaultAmount decimal.Decimal
}

// NewNormalizer returns a Normalizer that substitutes defaultAmount for empty
// input. The default is rounded like any other amount and must not be negative.
func NewNormalizer(defaultAmount decimal.Decimal) (Normalizer, error) {
	if defaultAmount.IsNegative() {
		return Normalizer{}, fmt.Errorf("default amount must not be negative, got %s", defaultAmount)
	}
	return Normalizer{DefaultAmount: RoundAmount(defaultAmount)}, nil
}

// DefaultNormalizer uses constants.DefaultAmount.
func DefaultNormalizer() Normalizer {
	return Normalizer{DefaultAmount: decimal.RequireFromString(constants.DefaultAmount)}
}

// Normalize parses raw using the package default amount.
func Normalize(raw string) (Amount, error) {
	return DefaultNormalizer().Normalize(raw)
}

// Valid reports whether raw would be accepted by Normalize.
func Valid(raw string) bool {
	return numberPattern.MatchString(raw)
}

// Normalize validates raw and parses it. The empty string yields the default
// amount with Placeholder set. A bare "." is zero, "5." is 5 and ".5" is 0.5.
func (n Normalizer) Normalize(raw string) (Amount, error) {
	if !numberPattern.MatchString(raw) {
		return Amount{}, fmt.Errorf("%w: %q is not a non-negative amount with at most %d decimal places",
			ErrInvalidInput, raw, constants.DecimalPlaces)
	}
	if raw == "" {
		return Amount{Value: n.DefaultAmount, Placeholder: true}, nil
	}

	text := "0" + strings.TrimSuffix(raw, ".")
	value, err := decimal.NewFromString(text)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return Amount{Value: RoundAmount(value)}, nil
}

// RoundAmount rounds to two decimal places, half away from zero. Amounts are
// non-negative, so this is round-half-up: 1.005 becomes 1.01.
func RoundAmount(value decimal.Decimal) decimal.Decimal {
	return value.Round(constants.DecimalPlaces)
}

// FromFloat converts a numeric amount (as sent by API clients) into an Amount
// using the same rounding rule. Negative values are rejected.
func FromFloat(value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, fmt.Errorf("%w: amount must be finite, got %v", ErrInvalidInput, value)
	}
	if value < 0 {
		return Amount{}, fmt.Errorf("%w: amount must not be negative, got %v", ErrInvalidInput, value)
	}
	return Amount{Value: RoundAmount(decimal.NewFromFloat(value))}, nil
}
