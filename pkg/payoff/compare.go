package payoff

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/mathutil"
)

// Comparison holds both policy plans for the same portfolio.
type Comparison struct {
	Snowball  PayoffPlan `json:"snowball"`
	Avalanche PayoffPlan `json:"avalanche"`
	// InterestSaved is how much less interest avalanche pays than snowball,
	// floored at zero.
	InterestSaved float64 `json:"interestSaved"`
	// MonthsSaved is snowball's payoff month minus avalanche's. It is only
	// meaningful when both plans resolve.
	MonthsSaved int    `json:"monthsSaved"`
	Recommended Policy `json:"recommended"`
}

// ComparePolicies simulates the portfolio under both policies. The Policy
// field of the input is ignored.
func ComparePolicies(portfolio Portfolio) (Comparison, error) {
	snowballInput := portfolio
	snowballInput.Policy = Snowball
	snowball, err := SimulatePayoff(snowballInput)
	if err != nil {
		return Comparison{}, err
	}

	avalancheInput := portfolio
	avalancheInput.Policy = Avalanche
	avalanche, err := SimulatePayoff(avalancheInput)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{
		Snowball:      snowball,
		Avalanche:     avalanche,
		InterestSaved: mathutil.Round2(math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid)),
		Recommended:   Avalanche,
	}
	if snowball.Resolved && avalanche.Resolved {
		c.MonthsSaved = snowball.MonthsToPayoff - avalanche.MonthsToPayoff
	}
	// Avalanche wins ties; snowball only when it is strictly cheaper.
	if snowball.TotalInterestPaid < avalanche.TotalInterestPaid {
		c.Recommended = Snowball
	}
	return c, nil
}
