package calculator

import (
	"strconv"

	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/growth"
)

// SavingsGoalResult answers what deposit reaches a goal, and optionally how
// long a chosen deposit takes.
type SavingsGoalResult struct {
	Goal                 float64 `json:"goal"`
	Periods              int     `json:"periods"`
	RequiredContribution float64 `json:"requiredContribution"`
	PeriodicContribution float64 `json:"periodicContribution,omitempty"`
	// PeriodsToGoal is set when a PeriodicContribution was given; Reached
	// reports whether that deposit gets there at all.
	PeriodsToGoal *int `json:"periodsToGoal,omitempty"`
	Reached       bool `json:"reached"`
}

// horizon prefers an explicit period count over a horizon in years.
func horizon(periods int, years float64, frequencyPerYear int) int {
	if periods == 0 && years > 0 {
		return growth.PeriodsForYears(years, frequencyPerYear)
	}
	return periods
}

func (c *Calculator) projection(calc config.Calculation) (outcome, error) {
	p := calc.Growth
	projection, err := growth.ProjectGrowth(growth.ContributionPlan{
		InitialAmount:                p.InitialAmount,
		PeriodicContribution:         p.PeriodicContribution,
		AnnualRatePercent:            p.AnnualRatePercent,
		Periods:                      horizon(p.Periods, p.Years, p.CompoundingFrequencyPerYear),
		CompoundingFrequencyPerYear:  p.CompoundingFrequencyPerYear,
		ContributionFrequencyPerYear: p.ContributionFrequencyPerYear,
	})
	if err != nil {
		return outcome{}, err
	}

	t := &Table{
		Title:       "Growth projection",
		LabelHeader: "Period",
		Columns: []Column{
			{Name: "Contributed", Unit: UnitCurrency},
			{Name: "Interest", Unit: UnitCurrency},
			{Name: "Balance", Unit: UnitCurrency},
			{Name: "Total interest", Unit: UnitCurrency},
		},
		Rows: make([]TableRow, len(projection.Rows)),
	}
	for i, row := range projection.Rows {
		t.Rows[i] = TableRow{
			Label:  strconv.Itoa(row.Period),
			Values: []float64{row.Contributed, row.InterestEarned, row.Balance, row.TotalInterest},
		}
	}

	return outcome{
		data: projection,
		summary: []Metric{
			currency("Final balance", projection.FinalBalance),
			currency("Total contributions", projection.TotalContributions),
			currency("Total interest", projection.TotalInterest),
			count("Periods", len(projection.Rows)),
		},
		table: t,
	}, nil
}

func (c *Calculator) savingsGoal(calc config.Calculation) (outcome, error) {
	p := calc.SavingsGoal
	periods := horizon(p.Periods, p.Years, p.FrequencyPerYear)
	required, err := growth.RequiredContribution(growth.GoalInput{
		Goal:              p.Goal,
		InitialAmount:     p.InitialAmount,
		AnnualRatePercent: p.AnnualRatePercent,
		Periods:           periods,
		FrequencyPerYear:  p.FrequencyPerYear,
	})
	if err != nil {
		return outcome{}, err
	}

	result := SavingsGoalResult{Goal: p.Goal, Periods: periods, RequiredContribution: required}
	summary := []Metric{
		currency("Goal", p.Goal),
		count("Periods", periods),
		currency("Required contribution", required),
	}

	if p.PeriodicContribution > 0 {
		n, reached, err := growth.PeriodsToGoal(growth.ContributionPlan{
			InitialAmount:               p.InitialAmount,
			PeriodicContribution:        p.PeriodicContribution,
			AnnualRatePercent:           p.AnnualRatePercent,
			CompoundingFrequencyPerYear: p.FrequencyPerYear,
		}, p.Goal)
		if err != nil {
			return outcome{}, err
		}
		result.PeriodicContribution = p.PeriodicContribution
		result.Reached = reached
		if reached {
			result.PeriodsToGoal = &n
			summary = append(summary, count("Periods at chosen contribution", n))
		} else {
			summary = append(summary, text("Periods at chosen contribution", "goal not reached"))
		}
	} else {
		result.Reached = true
	}

	return outcome{data: result, summary: summary}, nil
}
