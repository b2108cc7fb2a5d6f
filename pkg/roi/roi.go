// Package roi computes investment return, break-even and margin figures.
package roi

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
)

// Result is the return on an investment over a timeframe.
type Result struct {
	NetProfit  float64 `json:"netProfit"`
	RoiPercent float64 `json:"roiPercent"`
	// AnnualizedRoiPercent is nil when the annualized rate is undefined: a
	// return below zero leaves a negative growth factor, which has no real
	// fractional root.
	AnnualizedRoiPercent *float64 `json:"annualizedRoiPercent"`
}

// ComputeRoi returns simple and annualized ROI. initialInvestment and
// timeframeYears must be positive; returnAmount may be negative.
func ComputeRoi(initialInvestment, returnAmount, timeframeYears float64) (Result, error) {
	if err := validation.First(
		validation.Positive("initialInvestment", initialInvestment),
		validation.Finite("returnAmount", returnAmount),
		validation.Positive("timeframeYears", timeframeYears),
	); err != nil {
		return Result{}, err
	}

	net := returnAmount - initialInvestment
	growth := returnAmount / initialInvestment
	result := Result{
		NetProfit:  mathutil.Round2(net),
		RoiPercent: mathutil.Round2(mathutil.DecimalToPercent(net / initialInvestment)),
	}

	if growth >= 0 {
		annualized := mathutil.Round2(mathutil.DecimalToPercent(math.Pow(growth, 1/timeframeYears) - 1))
		if mathutil.IsFinite(annualized) {
			result.AnnualizedRoiPercent = &annualized
		}
	}
	return result, nil
}

// BreakEvenResult is the sales volume at which revenue covers every cost.
type BreakEvenResult struct {
	ContributionMarginPerUnit      float64 `json:"contributionMarginPerUnit"`
	ContributionMarginRatioPercent float64 `json:"contributionMarginRatioPercent"`
	Units                          int64   `json:"units"`
	Revenue                        float64 `json:"revenue"`
}

// BreakEven returns the whole number of units needed to cover fixedCosts and
// the revenue those units bring in.
func BreakEven(fixedCosts, pricePerUnit, variableCostPerUnit float64) (BreakEvenResult, error) {
	if err := validation.First(
		validation.NonNegative("fixedCosts", fixedCosts),
		validation.Positive("pricePerUnit", pricePerUnit),
		validation.NonNegative("variableCostPerUnit", variableCostPerUnit),
	); err != nil {
		return BreakEvenResult{}, err
	}
	if pricePerUnit <= variableCostPerUnit {
		return BreakEvenResult{}, validation.Errorf("pricePerUnit",
			"%v must exceed the variable cost per unit %v or the business never breaks even", pricePerUnit, variableCostPerUnit)
	}

	margin := pricePerUnit - variableCostPerUnit
	units := int64(math.Ceil(math.Round(fixedCosts/margin*1e6) / 1e6))
	return BreakEvenResult{
		ContributionMarginPerUnit:      mathutil.Round2(margin),
		ContributionMarginRatioPercent: mathutil.Round2(mathutil.DecimalToPercent(margin / pricePerUnit)),
		Units:                          units,
		Revenue:                        mathutil.Round2(float64(units) * pricePerUnit),
	}, nil
}

// MarginResult relates revenue to cost both ways.
type MarginResult struct {
	GrossProfit   float64 `json:"grossProfit"`
	MarginPercent float64 `json:"marginPercent"`
	MarkupPercent float64 `json:"markupPercent"`
}

// ComputeMargin returns gross profit, margin (profit over revenue) and markup
// (profit over cost). A zero denominator yields 0.
func ComputeMargin(revenue, cost float64) (MarginResult, error) {
	if err := validation.First(
		validation.NonNegative("revenue", revenue),
		validation.NonNegative("cost", cost),
	); err != nil {
		return MarginResult{}, err
	}
	profit := revenue - cost
	return MarginResult{
		GrossProfit:   mathutil.Round2(profit),
		MarginPercent: mathutil.Round2(mathutil.DecimalToPercent(mathutil.SafeDivide(profit, revenue, 0))),
		MarkupPercent: mathutil.Round2(mathutil.DecimalToPercent(mathutil.SafeDivide(profit, cost, 0))),
	}, nil
}
