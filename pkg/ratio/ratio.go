// Package ratio computes single-formula ratios such as debt-to-income and
// loan-to-value. Classifying a ratio as healthy or risky is left to callers.
package ratio

import (
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
)

// Result holds a ratio expressed in percent, rounded to two decimals.
type Result struct {
	RatioPercent float64 `json:"ratioPercent"`
}

// ComputeRatio returns numerator/denominator in percent. A zero denominator
// yields 0 rather than an infinite ratio.
func ComputeRatio(numerator, denominator float64) Result {
	return Result{
		RatioPercent: mathutil.Round2(mathutil.DecimalToPercent(mathutil.SafeDivide(numerator, denominator, 0))),
	}
}

// DebtToIncomeResult is a DTI ratio together with the totals that produced it.
type DebtToIncomeResult struct {
	Result
	TotalMonthlyDebt   float64 `json:"totalMonthlyDebt"`
	GrossMonthlyIncome float64 `json:"grossMonthlyIncome"`
}

// DebtToIncome sums the monthly debt payments and divides by gross monthly income.
func DebtToIncome(monthlyDebts []float64, grossMonthlyIncome float64) (DebtToIncomeResult, error) {
	if err := validation.NonNegative("grossMonthlyIncome", grossMonthlyIncome); err != nil {
		return DebtToIncomeResult{}, err
	}
	total := 0.0
	for i, d := range monthlyDebts {
		if err := validation.NonNegative("monthlyDebts", d); err != nil {
			reason := err.Error()
			if vErr, ok := validation.AsError(err); ok {
				reason = vErr.Reason
			}
			return DebtToIncomeResult{}, validation.Errorf("monthlyDebts", "payment %d: %s", i+1, reason)
		}
		total += d
	}

	return DebtToIncomeResult{
		Result:             ComputeRatio(total, grossMonthlyIncome),
		TotalMonthlyDebt:   mathutil.Round2(total),
		GrossMonthlyIncome: mathutil.Round2(grossMonthlyIncome),
	}, nil
}

// LoanToValue returns the loan balance as a percentage of the property value.
func LoanToValue(loanAmount, propertyValue float64) (Result, error) {
	if err := validation.First(
		validation.NonNegative("loanAmount", loanAmount),
		validation.Positive("propertyValue", propertyValue),
	); err != nil {
		return Result{}, err
	}
	return ComputeRatio(loanAmount, propertyValue), nil
}
