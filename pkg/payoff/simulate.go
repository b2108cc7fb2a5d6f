// Package payoff simulates paying down a portfolio of debts month by month
// under the snowball or avalanche ordering policy.
package payoff

import (
	"sort"

	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"github.com/shopspring/decimal"
)

// Policy decides which debt receives the extra payment first.
type Policy string

const (
	// Snowball targets the smallest balance first.
	Snowball Policy = constants.PolicySnowball
	// Avalanche targets the highest interest rate first.
	Avalanche Policy = constants.PolicyAvalanche
)

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case Snowball, Avalanche:
		return Policy(name), nil
	}
	return "", validation.Errorf("policy", "unknown ordering policy %q (expected %s or %s)", name, Snowball, Avalanche)
}

// Debt is one account in the portfolio.
type Debt struct {
	ID                string
	Balance           float64
	AnnualRatePercent float64
	MinimumPayment    float64
}

// Portfolio is the simulation input. ExtraMonthlyPayment is the budget on top
// of every minimum payment.
type Portfolio struct {
	Debts               []Debt
	ExtraMonthlyPayment float64
	Policy              Policy
	// MaxMonths bounds the simulation; 0 selects DefaultPayoffHorizonMonths.
	MaxMonths int
	// RolloverMinimums adds the minimum payment of every paid-off debt, and any
	// minimum a nearly paid debt could not absorb, to the extra payment.
	RolloverMinimums bool
}

// MonthRecord is the state after one simulated month.
type MonthRecord struct {
	Month              int                `json:"month"`
	Payments           map[string]float64 `json:"payments"`
	Interest           map[string]float64 `json:"interest"`
	Balances           map[string]float64 `json:"balances"`
	InterestPaidToDate float64            `json:"interestPaidToDate"`
}

// PayoffPlan is the simulated timeline. When Resolved is false the debts were
// not cleared within the horizon and MonthsToPayoff is 0.
type PayoffPlan struct {
	Policy            Policy         `json:"policy"`
	Months            []MonthRecord  `json:"months"`
	Resolved          bool           `json:"resolved"`
	MonthsToPayoff    int            `json:"monthsToPayoff"`
	TotalInterestPaid float64        `json:"totalInterestPaid"`
	TotalPaid         float64        `json:"totalPaid"`
	PayoffOrder       []string       `json:"payoffOrder"`
	PayoffMonth       map[string]int `json:"payoffMonth"`
}

// Validate checks the portfolio before simulation.
func (p Portfolio) Validate() error {
	if len(p.Debts) == 0 {
		return validation.Errorf("debts", "portfolio has no debts")
	}
	seen := make(map[string]bool, len(p.Debts))
	for i, d := range p.Debts {
		if d.ID == "" {
			return validation.Errorf("debts", "debt %d has an empty id", i+1)
		}
		if seen[d.ID] {
			return validation.Errorf("debts", "duplicate debt id %q", d.ID)
		}
		seen[d.ID] = true
		if err := validation.First(
			validation.NonNegative("debts."+d.ID+".balance", d.Balance),
			validation.NonNegative("debts."+d.ID+".annualRatePercent", d.AnnualRatePercent),
			validation.NonNegative("debts."+d.ID+".minimumPayment", d.MinimumPayment),
		); err != nil {
			return err
		}
	}
	if err := validation.NonNegative("extraMonthlyPayment", p.ExtraMonthlyPayment); err != nil {
		return err
	}
	if _, err := ParsePolicy(string(p.Policy)); err != nil {
		return err
	}
	if p.MaxMonths < 0 {
		return validation.Errorf("maxMonths", "must not be negative, got %d", p.MaxMonths)
	}
	return nil
}

type account struct {
	Debt
	balance decimal.Decimal
	rate    decimal.Decimal
	minimum decimal.Decimal
}

// SimulatePayoff runs one transition per month until every balance is zero or
// the horizon is reached. Each month: order the open debts, accrue interest,
// pay minimums (never past the balance), then spend the extra payment on the
// debts in priority order, cascading what a cleared debt leaves over.
func SimulatePayoff(portfolio Portfolio) (PayoffPlan, error) {
	if err := portfolio.Validate(); err != nil {
		return PayoffPlan{}, err
	}

	horizon := portfolio.MaxMonths
	if horizon == 0 {
		horizon = constants.DefaultPayoffHorizonMonths
	}

	accounts := make([]*account, 0, len(portfolio.Debts))
	plan := PayoffPlan{
		Policy:      portfolio.Policy,
		Months:      []MonthRecord{},
		PayoffOrder: []string{},
		PayoffMonth: make(map[string]int, len(portfolio.Debts)),
	}
	for _, d := range portfolio.Debts {
		a := &account{
			Debt:    d,
			balance: mathutil.Cents(d.Balance),
			rate:    decimal.NewFromFloat(d.AnnualRatePercent).Div(decimal.NewFromInt(constants.MonthsPerYear * 100)),
			minimum: mathutil.Cents(d.MinimumPayment),
		}
		accounts = append(accounts, a)
		if !a.balance.IsPositive() {
			plan.PayoffMonth[d.ID] = 0
		}
	}

	extra := mathutil.Cents(portfolio.ExtraMonthlyPayment)
	interestToDate := decimal.Zero
	paidToDate := decimal.Zero

	for month := 1; month <= horizon; month++ {
		open := prioritize(accounts, portfolio.Policy)
		if len(open) == 0 {
			break
		}

		record := MonthRecord{
			Month:    month,
			Payments: make(map[string]float64, len(open)),
			Interest: make(map[string]float64, len(open)),
			Balances: make(map[string]float64, len(accounts)),
		}
		payments := make(map[string]decimal.Decimal, len(open))

		pool := extra
		if portfolio.RolloverMinimums {
			for _, a := range accounts {
				if !a.balance.IsPositive() {
					pool = pool.Add(a.minimum)
				}
			}
		}

		for _, a := range open {
			interest := mathutil.RoundCents(a.balance.Mul(a.rate))
			a.balance = a.balance.Add(interest)
			interestToDate = interestToDate.Add(interest)
			record.Interest[a.ID] = mathutil.Float(interest)
		}

		for _, a := range open {
			pay := decimal.Min(a.minimum, a.balance)
			a.balance = a.balance.Sub(pay)
			payments[a.ID] = pay
			if portfolio.RolloverMinimums {
				pool = pool.Add(a.minimum.Sub(pay))
			}
		}

		for _, a := range open {
			if !pool.IsPositive() {
				break
			}
			if !a.balance.IsPositive() {
				continue
			}
			pay := decimal.Min(pool, a.balance)
			a.balance = a.balance.Sub(pay)
			payments[a.ID] = payments[a.ID].Add(pay)
			pool = pool.Sub(pay)
		}

		for _, a := range open {
			paidToDate = paidToDate.Add(payments[a.ID])
			record.Payments[a.ID] = mathutil.Float(payments[a.ID])
			if !a.balance.IsPositive() {
				plan.PayoffOrder = append(plan.PayoffOrder, a.ID)
				plan.PayoffMonth[a.ID] = month
			}
		}
		for _, a := range accounts {
			record.Balances[a.ID] = mathutil.Float(a.balance)
		}
		record.InterestPaidToDate = mathutil.Float(interestToDate)
		plan.Months = append(plan.Months, record)
	}

	plan.Resolved = true
	for _, a := range accounts {
		if a.balance.IsPositive() {
			plan.Resolved = false
			break
		}
	}
	if plan.Resolved {
		plan.MonthsToPayoff = len(plan.Months)
	}
	plan.TotalInterestPaid = mathutil.Float(interestToDate)
	plan.TotalPaid = mathutil.Float(paidToDate)
	return plan, nil
}

// prioritize returns the debts with a positive balance in policy order. Ties
// fall back to the id so the order is deterministic.
func prioritize(accounts []*account, policy Policy) []*account {
	open := make([]*account, 0, len(accounts))
	for _, a := range accounts {
		if a.balance.IsPositive() {
			open = append(open, a)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		var c int
		switch policy {
		case Avalanche:
			c = open[j].rate.Cmp(open[i].rate)
		default:
			c = open[i].balance.Cmp(open[j].balance)
		}
		if c != 0 {
			return c < 0
		}
		return open[i].ID < open[j].ID
	})
	return open
}
