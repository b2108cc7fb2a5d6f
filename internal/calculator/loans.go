package calculator

import (
	"math"
	"strconv"

	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/datetime"
	"github.com/iwvelando/finance-engine/pkg/loans"
)

// ScheduleResult is an amortization schedule with optional month labels.
type ScheduleResult struct {
	loans.AmortizationSchedule
	PayoffPeriod int      `json:"payoffPeriod"`
	PayoffMonth  string   `json:"payoffMonth,omitempty"`
	Months       []string `json:"months,omitempty"`
}

// AutoLoanResult is the amount financed for a vehicle and its schedule.
type AutoLoanResult struct {
	loans.AutoLoanAmount
	Schedule ScheduleResult `json:"schedule"`
}

// HomeEquityResult is the borrowing capacity against a home, with the
// schedule for borrowing all of it when a term was given.
type HomeEquityResult struct {
	loans.HomeEquity
	Schedule *ScheduleResult `json:"schedule,omitempty"`
}

func (c *Calculator) amortization(calc config.Calculation) (outcome, error) {
	p := calc.Amortization
	terms := loans.LoanTerms{
		Principal:             p.Principal,
		AnnualRatePercent:     p.AnnualRatePercent,
		TermMonths:            termMonths(p.TermMonths, p.TermYears),
		ExtraMonthlyPrincipal: p.ExtraMonthlyPrincipal,
		ARM:                   toARM(p.ARM),
	}
	schedule, err := buildSchedule(terms, calc.StartDate)
	if err != nil {
		return outcome{}, err
	}

	summary := scheduleSummary(schedule)
	if terms.ARM != nil {
		summary = append(summary, count("Rate adjustments", len(schedule.Adjustments)))
		if n := len(schedule.Adjustments); n > 0 {
			last := schedule.Adjustments[n-1]
			summary = append(summary, percent("Final rate", last.RatePercent), currency("Final payment", last.Payment))
		}
	}
	return outcome{data: schedule, summary: summary, table: scheduleTable("Amortization schedule", schedule)}, nil
}

func (c *Calculator) autoLoan(calc config.Calculation) (outcome, error) {
	p := calc.AutoLoan
	amount, err := loans.AutoLoanPrincipal(loans.AutoLoanInput{
		VehiclePrice:    p.VehiclePrice,
		DownPayment:     p.DownPayment,
		TradeInValue:    p.TradeInValue,
		TradeInPayoff:   p.TradeInPayoff,
		SalesTaxPercent: p.SalesTaxPercent,
		Fees:            p.Fees,
	})
	if err != nil {
		return outcome{}, err
	}
	schedule, err := buildSchedule(loans.LoanTerms{
		Principal:         amount.AmountFinanced,
		AnnualRatePercent: p.AnnualRatePercent,
		TermMonths:        p.TermMonths,
	}, calc.StartDate)
	if err != nil {
		return outcome{}, err
	}

	summary := append([]Metric{
		currency("Sales tax", amount.SalesTax),
		currency("Amount financed", amount.AmountFinanced),
	}, scheduleSummary(schedule)...)
	return outcome{
		data:    AutoLoanResult{AutoLoanAmount: amount, Schedule: schedule},
		summary: summary,
		table:   scheduleTable("Auto loan schedule", schedule),
	}, nil
}

func (c *Calculator) homeEquity(calc config.Calculation) (outcome, error) {
	p := calc.HomeEquity
	capacity, err := loans.HomeEquityCapacity(p.HomeValue, p.MortgageBalance, p.MaxLtvPercent)
	if err != nil {
		return outcome{}, err
	}

	out := outcome{
		data: HomeEquityResult{HomeEquity: capacity},
		summary: []Metric{
			currency("Equity", capacity.Equity),
			percent("Current loan-to-value", capacity.LoanToValuePercent),
			currency("Max combined loan", capacity.MaxCombinedLoanValue),
			currency("Max borrowable", capacity.MaxBorrowable),
		},
	}
	if p.TermMonths == 0 || capacity.MaxBorrowable <= 0 {
		return out, nil
	}

	schedule, err := buildSchedule(loans.LoanTerms{
		Principal:         capacity.MaxBorrowable,
		AnnualRatePercent: p.AnnualRatePercent,
		TermMonths:        p.TermMonths,
	}, calc.StartDate)
	if err != nil {
		return outcome{}, err
	}
	out.data = HomeEquityResult{HomeEquity: capacity, Schedule: &schedule}
	out.summary = append(out.summary, scheduleSummary(schedule)...)
	out.table = scheduleTable("Home equity loan schedule", schedule)
	return out, nil
}

func buildSchedule(terms loans.LoanTerms, startDate string) (ScheduleResult, error) {
	schedule, err := loans.BuildAmortizationSchedule(terms)
	if err != nil {
		return ScheduleResult{}, err
	}
	result := ScheduleResult{AmortizationSchedule: schedule, PayoffPeriod: schedule.PayoffPeriod()}
	months, err := datetime.MonthLabels(startDate, len(schedule.Rows))
	if err != nil {
		return ScheduleResult{}, err
	}
	if len(months) > 0 {
		result.Months = months
		result.PayoffMonth = months[len(months)-1]
	}
	return result, nil
}

// termMonths prefers an explicit month count over a term in years.
func termMonths(months int, years float64) int {
	if months == 0 && years > 0 {
		return int(math.Round(years * constants.MonthsPerYear))
	}
	return months
}

func toARM(p *config.ARMParams) *loans.ARM {
	if p == nil {
		return nil
	}
	arm := &loans.ARM{
		FixedPeriodMonths:      p.FixedPeriodMonths,
		AdjustmentPeriodMonths: p.AdjustmentPeriodMonths,
		InitialCapPercent:      p.InitialCapPercent,
		PeriodicCapPercent:     p.PeriodicCapPercent,
		LifetimeCapPercent:     p.LifetimeCapPercent,
		MarginPercent:          p.MarginPercent,
	}
	switch {
	case len(p.IndexSteps) > 0:
		steps := make(loans.IndexSteps, len(p.IndexSteps))
		for i, s := range p.IndexSteps {
			steps[i] = loans.IndexStep{FromPeriod: s.FromPeriod, RatePercent: s.RatePercent}
		}
		arm.Index = steps
	case p.IndexRatePercent != nil:
		arm.Index = loans.ConstantIndex(*p.IndexRatePercent)
	}
	return arm
}

func scheduleSummary(s ScheduleResult) []Metric {
	summary := []Metric{
		currency("Monthly payment", s.InitialPayment),
		currency("Total interest", s.TotalInterestPaid),
		currency("Total paid", s.TotalPaid),
		count("Payments", s.PayoffPeriod),
	}
	if s.PayoffMonth != "" {
		summary = append(summary, text("Payoff month", s.PayoffMonth))
	}
	return summary
}

func scheduleTable(title string, s ScheduleResult) *Table {
	t := &Table{
		Title:       title,
		LabelHeader: "Period",
		Columns: []Column{
			{Name: "Payment", Unit: UnitCurrency},
			{Name: "Principal", Unit: UnitCurrency},
			{Name: "Interest", Unit: UnitCurrency},
			{Name: "Balance", Unit: UnitCurrency},
			{Name: "Rate", Unit: UnitPercent},
		},
		Rows: make([]TableRow, len(s.Rows)),
	}
	if len(s.Months) > 0 {
		t.LabelHeader = "Month"
	}
	for i, row := range s.Rows {
		t.Rows[i] = TableRow{
			Label:  periodLabel(s.Months, row.Period),
			Values: []float64{row.Payment, row.Principal, row.Interest, row.RemainingBalance, row.RatePercent},
		}
	}
	return t
}

// periodLabel returns the month for a 1-based period, or the period number.
func periodLabel(months []string, period int) string {
	if period >= 1 && period <= len(months) {
		return months[period-1]
	}
	return strconv.Itoa(period)
}
