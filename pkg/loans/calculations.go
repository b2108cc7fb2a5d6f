// Package loans builds amortization schedules for fixed-rate and adjustable-rate
// loans. Mortgage, auto-loan and home-equity calculators all share it.
package loans

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"github.com/shopspring/decimal"
)

// LoanTerms holds the parameters of a loan. A nil ARM means the rate is fixed
// for the whole term.
type LoanTerms struct {
	Principal             float64
	AnnualRatePercent     float64
	TermMonths            int
	ARM                   *ARM
	ExtraMonthlyPrincipal float64
}

// AmortizationRow holds the values for a given payment.
type AmortizationRow struct {
	Period           int     `json:"period"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remainingBalance"`
	RatePercent      float64 `json:"ratePercent"`
}

// RateAdjustment records an ARM rate change and the re-amortized payment.
type RateAdjustment struct {
	Period              int     `json:"period"`
	PreviousRatePercent float64 `json:"previousRatePercent"`
	RatePercent         float64 `json:"ratePercent"`
	PreviousPayment     float64 `json:"previousPayment"`
	Payment             float64 `json:"payment"`
}

// AmortizationSchedule is the ordered list of payments for a loan.
type AmortizationSchedule struct {
	Rows              []AmortizationRow `json:"rows"`
	InitialPayment    float64           `json:"initialPayment"`
	TotalInterestPaid float64           `json:"totalInterestPaid"`
	TotalPaid         float64           `json:"totalPaid"`
	Adjustments       []RateAdjustment  `json:"adjustments"`
}

// PayoffPeriod returns the period of the final payment, or 0 for an empty schedule.
func (s AmortizationSchedule) PayoffPeriod() int {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].Period
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. The result is not rounded.
func CalculateMonthlyPayment(principal, annualRatePercent float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	r := mathutil.MonthlyRate(annualRatePercent)
	if r == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}
	return principal * r / (1 - math.Pow(1+r, -float64(termMonths)))
}

// CalculateInterestPayment calculates the interest portion of a payment, rounded
// to cents.
func CalculateInterestPayment(remainingPrincipal, annualRatePercent float64) float64 {
	return mathutil.Float(monthlyInterest(mathutil.Cents(remainingPrincipal), annualRatePercent))
}

// Validate checks the loan terms before any computation.
func (t LoanTerms) Validate() error {
	if err := validation.First(
		validation.Positive("principal", t.Principal),
		validation.NonNegative("annualRatePercent", t.AnnualRatePercent),
		validation.PositiveInt("termMonths", t.TermMonths),
		validation.NonNegative("extraMonthlyPrincipal", t.ExtraMonthlyPrincipal),
	); err != nil {
		return err
	}
	if t.TermMonths > constants.MaxTermMonths {
		return validation.Errorf("termMonths", "must not exceed %d, got %d", constants.MaxTermMonths, t.TermMonths)
	}
	if t.ARM != nil {
		return t.ARM.validate(t.TermMonths)
	}
	return nil
}

// BuildAmortizationSchedule produces the full payment schedule for a loan.
//
// The payment is rounded to cents once and held constant; each period's interest
// is rounded to cents; the final payment absorbs the rounding residue so the
// balance always ends at exactly zero. For an ARM the rate is recomputed at each
// adjustment boundary and the payment is re-amortized over the remaining term.
func BuildAmortizationSchedule(terms LoanTerms) (AmortizationSchedule, error) {
	if err := terms.Validate(); err != nil {
		return AmortizationSchedule{}, err
	}

	state := newRateState(terms.ARM, terms.AnnualRatePercent)
	balance := mathutil.Cents(terms.Principal)
	extra := mathutil.Cents(terms.ExtraMonthlyPrincipal)
	payment := levelPayment(balance, state.rate, terms.TermMonths)

	schedule := AmortizationSchedule{
		Rows:           make([]AmortizationRow, 0, terms.TermMonths),
		InitialPayment: mathutil.Float(payment),
	}
	totalInterest := decimal.Zero
	totalPaid := decimal.Zero

	for period := 1; period <= terms.TermMonths && balance.IsPositive(); period++ {
		if state.atBoundary(period) {
			adj := RateAdjustment{
				Period:              period,
				PreviousRatePercent: state.rate,
				PreviousPayment:     mathutil.Float(payment),
			}
			state.adjust(period)
			payment = levelPayment(balance, state.rate, terms.TermMonths-period+1)
			adj.RatePercent = state.rate
			adj.Payment = mathutil.Float(payment)
			schedule.Adjustments = append(schedule.Adjustments, adj)
		}

		interest := monthlyInterest(balance, state.rate)
		principal := payment.Sub(interest).Add(extra)
		paid := payment.Add(extra)
		if period == terms.TermMonths || principal.GreaterThanOrEqual(balance) {
			principal = balance
			paid = interest.Add(principal)
		}
		balance = balance.Sub(principal)

		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(paid)
		schedule.Rows = append(schedule.Rows, AmortizationRow{
			Period:           period,
			Payment:          mathutil.Float(paid),
			Principal:        mathutil.Float(principal),
			Interest:         mathutil.Float(interest),
			RemainingBalance: mathutil.Float(balance),
			RatePercent:      state.rate,
		})
	}

	schedule.TotalInterestPaid = mathutil.Float(totalInterest)
	schedule.TotalPaid = mathutil.Float(totalPaid)
	return schedule, nil
}

// levelPayment is the cent-rounded annuity payment that retires balance over
// the given number of periods.
func levelPayment(balance decimal.Decimal, annualRatePercent float64, periods int) decimal.Decimal {
	if periods <= 0 {
		return balance
	}
	if annualRatePercent == 0 {
		return mathutil.RoundCents(balance.Div(decimal.NewFromInt(int64(periods))))
	}
	return mathutil.Cents(CalculateMonthlyPayment(mathutil.Float(balance), annualRatePercent, periods))
}

func monthlyInterest(balance decimal.Decimal, annualRatePercent float64) decimal.Decimal {
	if annualRatePercent == 0 {
		return decimal.Zero
	}
	rate := decimal.NewFromFloat(annualRatePercent).Div(decimal.NewFromInt(constants.PercentageMultiplier * constants.MonthsPerYear))
	return mathutil.RoundCents(balance.Mul(rate))
}
