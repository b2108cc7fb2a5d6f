package calculator

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/datetime"
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/payoff"
)

// portfolio converts payoff parameters, filling unset limits from the
// configured payoff defaults. Debts without an id use their name, then their
// position.
func (c *Calculator) portfolio(p *config.PayoffParams, defaultPolicy payoff.Policy) (payoff.Portfolio, error) {
	policy := defaultPolicy
	if p.Policy != "" {
		parsed, err := payoff.ParsePolicy(p.Policy)
		if err != nil {
			return payoff.Portfolio{}, err
		}
		policy = parsed
	}

	debts := make([]payoff.Debt, len(p.Debts))
	for i, d := range p.Debts {
		id := d.ID
		if id == "" {
			id = d.Name
		}
		if id == "" {
			id = fmt.Sprintf("debt-%d", i+1)
		}
		debts[i] = payoff.Debt{
			ID:                id,
			Balance:           d.Balance,
			AnnualRatePercent: d.AnnualRatePercent,
			MinimumPayment:    d.MinimumPayment,
		}
	}

	portfolio := payoff.Portfolio{
		Debts:               debts,
		ExtraMonthlyPayment: p.ExtraMonthlyPayment,
		Policy:              policy,
		MaxMonths:           p.MaxMonths,
		RolloverMinimums:    c.payoff.RolloverMinimums,
	}
	if portfolio.MaxMonths == 0 {
		portfolio.MaxMonths = c.payoff.MaxMonths
	}
	if p.RolloverMinimums != nil {
		portfolio.RolloverMinimums = *p.RolloverMinimums
	}
	return portfolio, nil
}

func (c *Calculator) payoffPlan(calc config.Calculation) (outcome, error) {
	portfolio, err := c.portfolio(calc.Payoff, payoff.Avalanche)
	if err != nil {
		return outcome{}, err
	}
	plan, err := payoff.SimulatePayoff(portfolio)
	if err != nil {
		return outcome{}, err
	}

	table, err := payoffTable(plan, portfolio.Debts, calc.StartDate)
	if err != nil {
		return outcome{}, err
	}
	summary := append([]Metric{text("Policy", string(plan.Policy))}, planSummary("", plan)...)
	return outcome{data: plan, summary: summary, table: table}, nil
}

func (c *Calculator) payoffCompare(calc config.Calculation) (outcome, error) {
	portfolio, err := c.portfolio(calc.Payoff, payoff.Avalanche)
	if err != nil {
		return outcome{}, err
	}
	comparison, err := payoff.ComparePolicies(portfolio)
	if err != nil {
		return outcome{}, err
	}

	summary := planSummary("Snowball", comparison.Snowball)
	summary = append(summary, planSummary("Avalanche", comparison.Avalanche)...)
	summary = append(summary,
		currency("Interest saved", comparison.InterestSaved),
		count("Months saved", comparison.MonthsSaved),
		text("Recommended", string(comparison.Recommended)),
	)
	return outcome{data: comparison, summary: summary}, nil
}

func planSummary(prefix string, plan payoff.PayoffPlan) []Metric {
	var summary []Metric
	if plan.Resolved {
		summary = append(summary, count(prefixed(prefix, "Months to payoff"), plan.MonthsToPayoff))
	} else {
		summary = append(summary, text(prefixed(prefix, "Months to payoff"),
			fmt.Sprintf("not paid off within %d months", len(plan.Months))))
	}
	summary = append(summary,
		currency(prefixed(prefix, "Total interest"), plan.TotalInterestPaid),
		currency(prefixed(prefix, "Total paid"), plan.TotalPaid),
	)
	if len(plan.PayoffOrder) > 0 {
		summary = append(summary, text(prefixed(prefix, "Payoff order"), strings.Join(plan.PayoffOrder, " > ")))
	}
	return summary
}

func prefixed(prefix, label string) string {
	if prefix == "" {
		return label
	}
	return prefix + " " + strings.ToLower(label)
}

// payoffTable shows the remaining balance of every debt month by month.
func payoffTable(plan payoff.PayoffPlan, debts []payoff.Debt, startDate string) (*Table, error) {
	months, err := datetime.MonthLabels(startDate, len(plan.Months))
	if err != nil {
		return nil, err
	}
	t := &Table{
		Title:       "Payoff timeline (" + string(plan.Policy) + ")",
		LabelHeader: "Month",
		Rows:        make([]TableRow, len(plan.Months)),
	}
	for _, d := range debts {
		t.Columns = append(t.Columns, Column{Name: d.ID, Unit: UnitCurrency})
	}
	t.Columns = append(t.Columns,
		Column{Name: "Interest", Unit: UnitCurrency},
		Column{Name: "Interest to date", Unit: UnitCurrency},
	)

	for i, month := range plan.Months {
		values := make([]float64, 0, len(t.Columns))
		interest := 0.0
		for _, d := range debts {
			values = append(values, month.Balances[d.ID])
			interest += month.Interest[d.ID]
		}
		values = append(values, mathutil.Round2(interest), month.InterestPaidToDate)
		t.Rows[i] = TableRow{Label: periodLabel(months, month.Month), Values: values}
	}
	return t, nil
}
