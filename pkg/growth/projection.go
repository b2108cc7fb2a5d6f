// Package growth projects compound growth of a balance with periodic
// contributions, for compound-interest and savings-goal calculators.
//
// Contributions are treated as an ordinary annuity: each one lands at the end
// of its period, after that period's interest has been credited. Annuity-due
// timing (deposits at period start) would produce larger totals.
package growth

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"github.com/shopspring/decimal"
)

// ContributionPlan describes a balance growing over Periods compounding
// periods. When ContributionFrequencyPerYear differs from
// CompoundingFrequencyPerYear, contributions are mapped onto the compounding
// grid: a compounding period receives every contribution whose due date falls
// inside it. Zero means contributions follow the compounding cadence.
type ContributionPlan struct {
	InitialAmount                float64
	PeriodicContribution         float64
	AnnualRatePercent            float64
	Periods                      int
	CompoundingFrequencyPerYear  int
	ContributionFrequencyPerYear int
}

// ProjectionRow is the state after one compounding period.
type ProjectionRow struct {
	Period           int     `json:"period"`
	Contributed      float64 `json:"contributed"`
	InterestEarned   float64 `json:"interestEarned"`
	Balance          float64 `json:"balance"`
	TotalContributed float64 `json:"totalContributed"`
	TotalInterest    float64 `json:"totalInterest"`
}

// GrowthProjection is the period-by-period projection. TotalContributions
// includes the initial amount, so FinalBalance == TotalContributions + TotalInterest.
type GrowthProjection struct {
	Rows               []ProjectionRow `json:"rows"`
	FinalBalance       float64         `json:"finalBalance"`
	TotalContributions float64         `json:"totalContributions"`
	TotalInterest      float64         `json:"totalInterest"`
}

// Validate checks the plan before any computation.
func (p ContributionPlan) Validate() error {
	if err := validation.First(
		validation.NonNegative("initialAmount", p.InitialAmount),
		validation.NonNegative("periodicContribution", p.PeriodicContribution),
		validation.NonNegative("annualRatePercent", p.AnnualRatePercent),
		validation.PositiveInt("periods", p.Periods),
		validation.PositiveInt("compoundingFrequencyPerYear", p.CompoundingFrequencyPerYear),
	); err != nil {
		return err
	}
	if p.Periods > constants.MaxGrowthPeriods {
		return validation.Errorf("periods", "must not exceed %d, got %d", constants.MaxGrowthPeriods, p.Periods)
	}
	if p.ContributionFrequencyPerYear < 0 {
		return validation.Errorf("contributionFrequencyPerYear", "must not be negative, got %d", p.ContributionFrequencyPerYear)
	}
	return nil
}

// ProjectGrowth computes the closing balance of every period: opening balance
// plus cent-rounded interest on the opening balance plus the period's
// contributions.
func ProjectGrowth(plan ContributionPlan) (GrowthProjection, error) {
	if err := plan.Validate(); err != nil {
		return GrowthProjection{}, err
	}

	acc := newAccumulator(plan)
	projection := GrowthProjection{Rows: make([]ProjectionRow, 0, plan.Periods)}
	for period := 1; period <= plan.Periods; period++ {
		projection.Rows = append(projection.Rows, acc.step(period))
	}

	projection.FinalBalance = mathutil.Float(acc.balance)
	projection.TotalContributions = mathutil.Float(acc.contributed)
	projection.TotalInterest = mathutil.Float(acc.interest)
	return projection, nil
}

// accumulator carries the running balance of a plan one period at a time.
type accumulator struct {
	plan         ContributionPlan
	rate         decimal.Decimal
	contribution decimal.Decimal
	balance      decimal.Decimal
	contributed  decimal.Decimal
	interest     decimal.Decimal
}

func newAccumulator(plan ContributionPlan) *accumulator {
	balance := mathutil.Cents(plan.InitialAmount)
	return &accumulator{
		plan:         plan,
		rate:         periodicRate(plan.AnnualRatePercent, plan.CompoundingFrequencyPerYear),
		contribution: mathutil.Cents(plan.PeriodicContribution),
		balance:      balance,
		contributed:  balance,
		interest:     decimal.Zero,
	}
}

// stalled reports whether the balance can never change.
func (a *accumulator) stalled() bool {
	return a.contribution.IsZero() && (a.rate.IsZero() || a.balance.IsZero())
}

// step credits interest and then the deposits of the given period.
func (a *accumulator) step(period int) ProjectionRow {
	interest := mathutil.RoundCents(a.balance.Mul(a.rate))
	deposit := a.contribution.Mul(decimal.NewFromInt(int64(a.plan.contributionsIn(period))))

	a.balance = a.balance.Add(interest).Add(deposit)
	a.contributed = a.contributed.Add(deposit)
	a.interest = a.interest.Add(interest)

	return ProjectionRow{
		Period:           period,
		Contributed:      mathutil.Float(deposit),
		InterestEarned:   mathutil.Float(interest),
		Balance:          mathutil.Float(a.balance),
		TotalContributed: mathutil.Float(a.contributed),
		TotalInterest:    mathutil.Float(a.interest),
	}
}

// contributionsIn counts the contributions due inside compounding period k,
// i.e. floor(k*cf/pf) - floor((k-1)*cf/pf).
func (p ContributionPlan) contributionsIn(period int) int {
	pf := p.CompoundingFrequencyPerYear
	cf := p.ContributionFrequencyPerYear
	if cf == 0 || cf == pf {
		return 1
	}
	return period*cf/pf - (period-1)*cf/pf
}

// PeriodsForYears converts a horizon in years into compounding periods.
func PeriodsForYears(years float64, frequencyPerYear int) int {
	return int(math.Round(years * float64(frequencyPerYear)))
}

func periodicRate(annualRatePercent float64, frequencyPerYear int) decimal.Decimal {
	return decimal.NewFromFloat(annualRatePercent).
		Div(decimal.NewFromFloat(constants.PercentageMultiplier)).
		Div(decimal.NewFromInt(int64(frequencyPerYear)))
}
