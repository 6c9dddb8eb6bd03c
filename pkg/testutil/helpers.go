// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/inflation-calculator/internal/calculator"
)

// FindResult finds a calculation result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []calculator.Result, name string) *calculator.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// RowValue returns the machine-readable value of the row with the given label.
func RowValue(result *calculator.Result, label string) (string, bool) {
	if result == nil {
		return "", false
	}
	for _, row := range result.Rows {
		if row.Label == label {
			return row.Value, true
		}
	}
	return "", false
}
