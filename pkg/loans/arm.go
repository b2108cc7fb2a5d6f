package loans

import (
	"math"
	"sort"

	"github.com/iwvelando/finance-engine/pkg/validation"
)

// ARM describes an adjustable-rate schedule: the initial rate holds for
// FixedPeriodMonths, then the rate adjusts every AdjustmentPeriodMonths.
//
// At each adjustment the rate moves toward Index + Margin by at most the cap
// (InitialCapPercent on the first adjustment, PeriodicCapPercent afterwards),
// never above initial rate + LifetimeCapPercent and never below zero. Without
// an Index the rate rises by the full cap each time, which is the worst case a
// borrower can face.
type ARM struct {
	FixedPeriodMonths      int
	AdjustmentPeriodMonths int
	InitialCapPercent      float64
	PeriodicCapPercent     float64
	LifetimeCapPercent     float64
	MarginPercent          float64
	Index                  IndexRateProvider
}

// IndexRateProvider supplies the market index rate, in percent, in effect for a
// 1-based payment period.
type IndexRateProvider interface {
	IndexRate(period int) float64
}

// IndexRateFunc adapts a function to IndexRateProvider.
type IndexRateFunc func(period int) float64

// IndexRate implements IndexRateProvider.
func (f IndexRateFunc) IndexRate(period int) float64 { return f(period) }

// ConstantIndex is an index that never moves.
type ConstantIndex float64

// IndexRate implements IndexRateProvider.
func (c ConstantIndex) IndexRate(int) float64 { return float64(c) }

// IndexStep sets the index rate from FromPeriod onward.
type IndexStep struct {
	FromPeriod  int
	RatePercent float64
}

// IndexSteps is a step function over periods. Before the first step the index is 0.
type IndexSteps []IndexStep

// IndexRate implements IndexRateProvider.
func (s IndexSteps) IndexRate(period int) float64 {
	steps := make(IndexSteps, len(s))
	copy(steps, s)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].FromPeriod < steps[j].FromPeriod })

	rate := 0.0
	for _, step := range steps {
		if step.FromPeriod > period {
			break
		}
		rate = step.RatePercent
	}
	return rate
}

func (a *ARM) validate(termMonths int) error {
	if a.FixedPeriodMonths < 0 || a.FixedPeriodMonths > termMonths {
		return validation.Errorf("arm.fixedPeriodMonths", "must be between 0 and termMonths (%d), got %d",
			termMonths, a.FixedPeriodMonths)
	}
	return validation.First(
		validation.PositiveInt("arm.adjustmentPeriodMonths", a.AdjustmentPeriodMonths),
		validation.NonNegative("arm.initialCapPercent", a.InitialCapPercent),
		validation.NonNegative("arm.periodicCapPercent", a.PeriodicCapPercent),
		validation.NonNegative("arm.lifetimeCapPercent", a.LifetimeCapPercent),
		validation.NonNegative("arm.marginPercent", a.MarginPercent),
	)
}

// rateState is the ARM state machine. The only transition is adjust, taken at
// each boundary period reported by atBoundary.
type rateState struct {
	arm         *ARM
	initialRate float64
	rate        float64
	adjustments int
}

func newRateState(arm *ARM, initialRate float64) *rateState {
	return &rateState{arm: arm, initialRate: initialRate, rate: initialRate}
}

func (s *rateState) atBoundary(period int) bool {
	if s.arm == nil {
		return false
	}
	offset := period - s.arm.FixedPeriodMonths - 1
	return offset >= 0 && offset%s.arm.AdjustmentPeriodMonths == 0
}

func (s *rateState) adjust(period int) {
	limit := s.arm.PeriodicCapPercent
	if s.adjustments == 0 && s.arm.InitialCapPercent > 0 {
		limit = s.arm.InitialCapPercent
	}

	next := s.rate + limit
	if s.arm.Index != nil {
		target := s.arm.Index.IndexRate(period) + s.arm.MarginPercent
		next = math.Max(s.rate-limit, math.Min(s.rate+limit, target))
	}
	next = math.Min(next, s.initialRate+s.arm.LifetimeCapPercent)
	next = math.Max(next, 0)

	// Rates are quoted to a few decimals; drop accumulated float noise.
	s.rate = math.Round(next*1e6) / 1e6
	s.adjustments++
}
