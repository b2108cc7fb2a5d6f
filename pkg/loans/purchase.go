package loans

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
)

// AutoLoanInput describes a vehicle purchase to be financed.
type AutoLoanInput struct {
	VehiclePrice    float64
	DownPayment     float64
	TradeInValue    float64
	TradeInPayoff   float64 // owed on the trade-in; negative equity is rolled into the loan
	SalesTaxPercent float64 // applied to price less trade-in value
	Fees            float64
}

// AutoLoanAmount is the breakdown of the amount financed.
type AutoLoanAmount struct {
	SalesTax       float64 `json:"salesTax"`
	AmountFinanced float64 `json:"amountFinanced"`
}

// AutoLoanPrincipal computes the amount financed for a vehicle purchase, which
// is then amortized with BuildAmortizationSchedule.
func AutoLoanPrincipal(in AutoLoanInput) (AutoLoanAmount, error) {
	if err := validation.First(
		validation.Positive("vehiclePrice", in.VehiclePrice),
		validation.NonNegative("downPayment", in.DownPayment),
		validation.NonNegative("tradeInValue", in.TradeInValue),
		validation.NonNegative("tradeInPayoff", in.TradeInPayoff),
		validation.NonNegative("salesTaxPercent", in.SalesTaxPercent),
		validation.NonNegative("fees", in.Fees),
	); err != nil {
		return AutoLoanAmount{}, err
	}

	taxable := math.Max(0, in.VehiclePrice-in.TradeInValue)
	salesTax := mathutil.Round2(taxable * mathutil.PercentToDecimal(in.SalesTaxPercent))
	financed := mathutil.Round2(in.VehiclePrice + salesTax + in.Fees + in.TradeInPayoff - in.DownPayment - in.TradeInValue)
	if financed <= 0 {
		return AutoLoanAmount{}, validation.Errorf("downPayment", "leaves nothing to finance (amount financed %.2f)", financed)
	}
	return AutoLoanAmount{SalesTax: salesTax, AmountFinanced: financed}, nil
}

// HomeEquity describes how much can be borrowed against a home.
type HomeEquity struct {
	Equity               float64 `json:"equity"`
	LoanToValuePercent   float64 `json:"loanToValuePercent"`
	MaxBorrowable        float64 `json:"maxBorrowable"`
	MaxCombinedLoanValue float64 `json:"maxCombinedLoanValue"`
}

// HomeEquityCapacity computes the equity in a home and the largest home-equity
// loan a lender capping the combined loan-to-value at maxLTVPercent would allow.
func HomeEquityCapacity(homeValue, mortgageBalance, maxLTVPercent float64) (HomeEquity, error) {
	if err := validation.First(
		validation.Positive("homeValue", homeValue),
		validation.NonNegative("mortgageBalance", mortgageBalance),
		validation.Positive("maxLtvPercent", maxLTVPercent),
	); err != nil {
		return HomeEquity{}, err
	}
	if maxLTVPercent > 100 {
		return HomeEquity{}, validation.Errorf("maxLtvPercent", "must not exceed 100, got %v", maxLTVPercent)
	}

	maxCombined := mathutil.Round2(homeValue * mathutil.PercentToDecimal(maxLTVPercent))
	return HomeEquity{
		Equity:               mathutil.Round2(homeValue - mortgageBalance),
		LoanToValuePercent:   mathutil.Round2(mathutil.DecimalToPercent(mathutil.SafeDivide(mortgageBalance, homeValue, 0))),
		MaxBorrowable:        math.Max(0, mathutil.Round2(maxCombined-mortgageBalance)),
		MaxCombinedLoanValue: maxCombined,
	}, nil
}
