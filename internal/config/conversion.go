package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/donation-impact/pkg/currency"
	"github.com/iwvelando/donation-impact/pkg/impact"
	"github.com/iwvelando/donation-impact/pkg/input"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// BuildEstimator converts the estimator section into an impact.Estimator.
func (c *Configuration) BuildEstimator() (impact.Estimator, error) {
	e := c.Estimator
	return impact.New(e.UnitCost, e.CostPerLifeSaved, e.PeoplePerUnit)
}

// BuildNormalizer converts the default amount into an input.Normalizer.
func (c *Configuration) BuildNormalizer() (input.Normalizer, error) {
	raw := strings.TrimSpace(c.Estimator.DefaultAmount)
	if raw == "" {
		return input.DefaultNormalizer(), nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return input.Normalizer{}, fmt.Errorf("default amount is not a number: %q", raw)
	}
	return input.NewNormalizer(amount)
}

// BuildRateTable converts the currencies section into a currency.RateTable.
func (c *Configuration) BuildRateTable() (currency.RateTable, error) {
	rates := make(map[currency.Code]decimal.Decimal, len(c.Currencies))
	for _, cur := range c.Currencies {
		code, err := currency.ParseCode(cur.Code)
		if err != nil {
			return currency.RateTable{}, err
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(cur.Rate))
		if err != nil {
			return currency.RateTable{}, fmt.Errorf("rate for %s is not a number: %q", code, cur.Rate)
		}
		rates[code] = rate
	}
	return currency.NewRateTable(rates)
}

// MarshalYAML serializes the configuration the way it is read back.
func MarshalYAML(c *Configuration) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}
