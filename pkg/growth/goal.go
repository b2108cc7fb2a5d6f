package growth

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
)

// GoalInput describes a savings goal reached with level end-of-period deposits.
type GoalInput struct {
	Goal              float64
	InitialAmount     float64
	AnnualRatePercent float64
	Periods           int
	FrequencyPerYear  int
}

// RequiredContribution returns the level end-of-period deposit, rounded up to
// the cent, that grows InitialAmount to Goal within Periods. It is zero when the
// initial amount alone gets there.
func RequiredContribution(in GoalInput) (float64, error) {
	if err := validation.First(
		validation.Positive("goal", in.Goal),
		validation.NonNegative("initialAmount", in.InitialAmount),
		validation.NonNegative("annualRatePercent", in.AnnualRatePercent),
		validation.PositiveInt("periods", in.Periods),
		validation.PositiveInt("frequencyPerYear", in.FrequencyPerYear),
	); err != nil {
		return 0, err
	}

	r := mathutil.PercentToDecimal(in.AnnualRatePercent) / float64(in.FrequencyPerYear)
	n := float64(in.Periods)
	if r == 0 {
		return ceilCents(math.Max(0, (in.Goal-in.InitialAmount)/n)), nil
	}

	growth := math.Pow(1+r, n)
	shortfall := in.Goal - in.InitialAmount*growth
	if shortfall <= 0 {
		return 0, nil
	}
	return ceilCents(shortfall * r / (growth - 1)), nil
}

// PeriodsToGoal steps the projection until the balance reaches goal and
// returns the number of periods needed. reached is false when the goal is not
// met within MaxGrowthPeriods or the balance can never grow.
func PeriodsToGoal(plan ContributionPlan, goal float64) (periods int, reached bool, err error) {
	if err := validation.Positive("goal", goal); err != nil {
		return 0, false, err
	}
	check := plan
	check.Periods = 1
	if err := check.Validate(); err != nil {
		return 0, false, err
	}
	if plan.InitialAmount >= goal {
		return 0, true, nil
	}

	acc := newAccumulator(plan)
	if acc.stalled() {
		return 0, false, nil
	}
	for period := 1; period <= constants.MaxGrowthPeriods; period++ {
		if acc.step(period).Balance >= goal {
			return period, true, nil
		}
	}
	return 0, false, nil
}

func ceilCents(val float64) float64 {
	// Round first so 100.000000001 from float noise does not become 100.01.
	return math.Ceil(math.Round(val*1e6)/1e4) / constants.DecimalPrecision
}
