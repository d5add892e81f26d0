// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/pkg/currency"
)

// FindResult finds the result for the given currency and normalized amount.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []calculator.Result, code currency.Code, amount string) *calculator.Result {
	for i := range results {
		if results[i].Currency == code && results[i].Amount == amount {
			return &results[i]
		}
	}
	return nil
}
