package roi

import (
	"math"
	"testing"

	"github.com/iwvelando/finance-engine/pkg/validation"
)

func TestComputeRoi(t *testing.T) {
	tests := []struct {
		name               string
		initial            float64
		returned           float64
		years              float64
		expectedNet        float64
		expectedRoi        float64
		expectedAnnualized *float64
	}{
		{"One year collapses to simple ROI", 10000, 15000, 1, 5000, 50, ptr(50)},
		{"Doubling over two years", 10000, 20000, 2, 10000, 100, ptr(41.42)},
		{"Loss over half a year", 10000, 5000, 0.5, -5000, -50, ptr(-75)},
		{"Total loss", 10000, 0, 3, -10000, -100, ptr(-100)},
		{"Loss beyond the investment", 10000, -2000, 1.5, -12000, -120, nil},
		{"Negative growth factor over whole years", 10000, -2000, 1, -12000, -120, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeRoi(tt.initial, tt.returned, tt.years)
			if err != nil {
				t.Fatalf("ComputeRoi() error = %v", err)
			}
			if result.NetProfit != tt.expectedNet {
				t.Errorf("NetProfit = %.2f, expected %.2f", result.NetProfit, tt.expectedNet)
			}
			if result.RoiPercent != tt.expectedRoi {
				t.Errorf("RoiPercent = %v, expected %v", result.RoiPercent, tt.expectedRoi)
			}
			switch {
			case tt.expectedAnnualized == nil && result.AnnualizedRoiPercent != nil:
				t.Errorf("AnnualizedRoiPercent = %v, expected undefined", *result.AnnualizedRoiPercent)
			case tt.expectedAnnualized != nil && result.AnnualizedRoiPercent == nil:
				t.Errorf("AnnualizedRoiPercent undefined, expected %v", *tt.expectedAnnualized)
			case tt.expectedAnnualized != nil && *result.AnnualizedRoiPercent != *tt.expectedAnnualized:
				t.Errorf("AnnualizedRoiPercent = %v, expected %v", *result.AnnualizedRoiPercent, *tt.expectedAnnualized)
			}
			if result.AnnualizedRoiPercent != nil && math.IsNaN(*result.AnnualizedRoiPercent) {
				t.Error("AnnualizedRoiPercent must never be NaN")
			}
		})
	}
}

func TestComputeRoiValidation(t *testing.T) {
	tests := []struct {
		name     string
		initial  float64
		returned float64
		years    float64
		field    string
	}{
		{"Zero investment", 0, 100, 1, "initialInvestment"},
		{"Negative investment", -100, 100, 1, "initialInvestment"},
		{"NaN return", 100, math.NaN(), 1, "returnAmount"},
		{"Zero timeframe", 100, 150, 0, "timeframeYears"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeRoi(tt.initial, tt.returned, tt.years)
			vErr, ok := validation.AsError(err)
			if !ok {
				t.Fatalf("expected *validation.Error, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("error field = %q, expected %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestBreakEven(t *testing.T) {
	tests := []struct {
		name            string
		fixed           float64
		price           float64
		variable        float64
		expectedUnits   int64
		expectedRevenue float64
	}{
		{"Exact units", 10000, 50, 30, 500, 25000},
		{"Partial unit rounds up", 10001, 50, 30, 501, 25050},
		{"No fixed costs", 0, 50, 30, 0, 0},
		{"Cents margin", 1000, 9.99, 4.99, 200, 1998},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := BreakEven(tt.fixed, tt.price, tt.variable)
			if err != nil {
				t.Fatalf("BreakEven() error = %v", err)
			}
			if result.Units != tt.expectedUnits || result.Revenue != tt.expectedRevenue {
				t.Errorf("BreakEven() = (%d units, %.2f), expected (%d, %.2f)",
					result.Units, result.Revenue, tt.expectedUnits, tt.expectedRevenue)
			}
		})
	}

	result, _ := BreakEven(10000, 50, 30)
	if result.ContributionMarginPerUnit != 20 || result.ContributionMarginRatioPercent != 40 {
		t.Errorf("contribution margin = (%.2f, %v%%), expected (20, 40%%)",
			result.ContributionMarginPerUnit, result.ContributionMarginRatioPercent)
	}

	if _, err := BreakEven(1000, 30, 30); !validation.IsValidationError(err) {
		t.Errorf("expected validation error when price does not exceed variable cost, got %v", err)
	}
}

func TestComputeMargin(t *testing.T) {
	result, err := ComputeMargin(150, 100)
	if err != nil {
		t.Fatalf("ComputeMargin() error = %v", err)
	}
	if result.GrossProfit != 50 || result.MarginPercent != 33.33 || result.MarkupPercent != 50 {
		t.Errorf("ComputeMargin(150, 100) = %+v", result)
	}

	zero, err := ComputeMargin(0, 0)
	if err != nil {
		t.Fatalf("ComputeMargin() error = %v", err)
	}
	if zero.MarginPercent != 0 || zero.MarkupPercent != 0 {
		t.Errorf("ComputeMargin(0, 0) = %+v, expected zero ratios", zero)
	}

	if _, err := ComputeMargin(-1, 10); !validation.IsValidationError(err) {
		t.Errorf("expected validation error for negative revenue, got %v", err)
	}
}

func ptr(v float64) *float64 {
	return &v
}
