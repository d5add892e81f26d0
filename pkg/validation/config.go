// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/shopspring/decimal"
)

// ValidateDonationURL reports a warning when a currency has no usable donation link.
func ValidateDonationURL(code, link string) string {
	trimmed := strings.TrimSpace(link)
	if trimmed == "" {
		return fmt.Sprintf("Currency '%s' has no donation URL", code)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Sprintf("Currency '%s' donation URL %q is not an absolute http(s) link", code, trimmed)
	}
	return ""
}

// ValidateRateDeviation warns when a rate sits more than maxDeviation times
// away from the reference currency in either direction. Unparseable or
// non-positive rates are left to the hard validation.
func ValidateRateDeviation(code, rate string, maxDeviation float64) string {
	value, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil || !value.IsPositive() || maxDeviation <= 1 {
		return ""
	}
	limit := decimal.NewFromFloat(maxDeviation)
	if value.GreaterThan(limit) || value.LessThan(decimal.NewFromInt(1).Div(limit)) {
		return fmt.Sprintf("Currency '%s' rate %s is far from the reference currency", code, rate)
	}
	return ""
}

// ValidateEstimatorCosts warns when a single unit costs more than a life.
func ValidateEstimatorCosts(unitCost, costPerLifeSaved float64) string {
	if costPerLifeSaved > 0 && unitCost > costPerLifeSaved {
		return fmt.Sprintf("Unit cost %v exceeds cost per life saved %v", unitCost, costPerLifeSaved)
	}
	return ""
}

// ConfigValidator collects the soft checks for a configuration.
type ConfigValidator struct {
	UnitCost         float64
	CostPerLifeSaved float64
	Currencies       []CurrencyConfig
}

// CurrencyConfig is the subset of a currency entry the validator inspects.
type CurrencyConfig struct {
	Code        string
	Rate        string
	DonationURL string
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	for _, cur := range cv.Currencies {
		if warning := ValidateDonationURL(cur.Code, cur.DonationURL); warning != "" {
			warnings = append(warnings, warning)
		}
		if warning := ValidateRateDeviation(cur.Code, cur.Rate, constants.MaxRateDeviation); warning != "" {
			warnings = append(warnings, warning)
		}
	}

	if warning := ValidateEstimatorCosts(cv.UnitCost, cv.CostPerLifeSaved); warning != "" {
		warnings = append(warnings, warning)
	}

	return warnings
}
