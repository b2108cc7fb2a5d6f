// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-engine/internal/calculator"
)

// FindResult finds a result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []calculator.Result, name string) *calculator.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// FindMetric finds a summary metric by label. Returns nil if absent.
func FindMetric(result calculator.Result, label string) *calculator.Metric {
	for i := range result.Summary {
		if result.Summary[i].Label == label {
			return &result.Summary[i]
		}
	}
	return nil
}

// Cents converts a money amount to whole cents for exact comparison.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// AssertMoney fails the test when got and expected differ by a cent or more.
func AssertMoney(t testing.TB, name string, got, expected float64) {
	t.Helper()
	if Cents(got) != Cents(expected) {
		t.Errorf("%s = %.2f, expected %.2f", name, got, expected)
	}
}
