package calculator_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/finance-engine/internal/calculator"
	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/loans"
	"github.com/iwvelando/finance-engine/pkg/payoff"
	"github.com/iwvelando/finance-engine/pkg/tax"
	"github.com/iwvelando/finance-engine/pkg/testutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"go.uber.org/zap"
)

func sampleTables(t *testing.T) *config.TaxTables {
	t.Helper()
	tables, err := config.NewTaxTables([]tax.BracketTable{{
		Name:              "sample",
		StandardDeduction: 14600,
		Brackets: []tax.TaxBracket{
			{Lower: 0, Upper: 10000, RatePercent: 10},
			{Lower: 10000, Upper: 40000, RatePercent: 12},
			{Lower: 40000, Upper: 0, RatePercent: 22},
		},
	}})
	if err != nil {
		t.Fatalf("NewTaxTables() error = %v", err)
	}
	return tables
}

func newCalculator(t *testing.T, opts calculator.Options) *calculator.Calculator {
	t.Helper()
	calc, err := calculator.New(zap.NewNop(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return calc
}

func metricValue(t *testing.T, result calculator.Result, label string) float64 {
	t.Helper()
	m := testutil.FindMetric(result, label)
	if m == nil {
		t.Fatalf("metric %q missing from %+v", label, result.Summary)
	}
	return m.Value
}

func TestNew(t *testing.T) {
	calc, err := calculator.New(nil, calculator.Options{})
	if err != nil {
		t.Fatalf("New() with defaults error = %v", err)
	}
	if len(calc.Tables().Names()) == 0 {
		t.Error("expected the built-in tables")
	}
	if calc.DefaultTable() == "" {
		t.Error("expected a default table")
	}

	if _, err := calculator.New(nil, calculator.Options{Tables: sampleTables(t)}); err == nil {
		t.Error("expected an error when the default table is not in the supplied tables")
	}
	if _, err := calculator.New(nil, calculator.Options{Tables: sampleTables(t), DefaultTable: "sample"}); err != nil {
		t.Errorf("New() error = %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	conf, err := config.LoadConfigurationFromReader(strings.NewReader("payoff:\n  maxMonths: 12\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	calc, err := calculator.NewFromConfig(nil, conf)
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}
	if calc.DefaultTable() != conf.Tax.DefaultTable {
		t.Errorf("DefaultTable() = %q, expected %q", calc.DefaultTable(), conf.Tax.DefaultTable)
	}
}

func TestRunAmortization(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	result, err := calc.Run(config.Calculation{
		Name:      "mortgage",
		Type:      config.TypeAmortization,
		StartDate: "2025-01",
		Amortization: &config.AmortizationParams{
			Principal:         100000,
			AnnualRatePercent: 6,
			TermYears:         30,
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	testutil.AssertMoney(t, "Monthly payment", metricValue(t, result, "Monthly payment"), 599.55)
	if got := metricValue(t, result, "Payments"); got != 360 {
		t.Errorf("Payments = %v, expected 360", got)
	}
	if m := testutil.FindMetric(result, "Payoff month"); m == nil || m.Text != "2054-12" {
		t.Errorf("Payoff month = %+v, expected 2054-12", m)
	}

	schedule, ok := result.Data.(calculator.ScheduleResult)
	if !ok {
		t.Fatalf("Data is %T, expected ScheduleResult", result.Data)
	}
	if len(schedule.Months) != 360 || schedule.Months[0] != "2025-01" {
		t.Errorf("unexpected month labels: %d starting %v", len(schedule.Months), schedule.Months[:1])
	}
	if result.Table == nil || len(result.Table.Rows) != 360 || result.Table.Rows[0].Label != "2025-01" {
		t.Fatalf("unexpected table: %+v", result.Table)
	}
	last := result.Table.Rows[len(result.Table.Rows)-1]
	if last.Values[3] != 0 {
		t.Errorf("final balance = %v, expected 0", last.Values[3])
	}
}

func TestRunARMFollowsConfiguredIndex(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})
	index := 1.0

	result, err := calc.Run(config.Calculation{
		Type: config.TypeAmortization,
		Amortization: &config.AmortizationParams{
			Principal:         200000,
			AnnualRatePercent: 5,
			TermMonths:        360,
			ARM: &config.ARMParams{
				FixedPeriodMonths:      60,
				AdjustmentPeriodMonths: 12,
				InitialCapPercent:      2,
				PeriodicCapPercent:     1,
				LifetimeCapPercent:     5,
				MarginPercent:          2,
				IndexRatePercent:       &index,
			},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	schedule := result.Data.(calculator.ScheduleResult)
	if len(schedule.Adjustments) == 0 {
		t.Fatal("expected rate adjustments")
	}
	first := schedule.Adjustments[0]
	if first.Period != 61 || first.RatePercent != 3 {
		t.Errorf("first adjustment = %+v, expected the rate to fall to index+margin (3%%) at period 61", first)
	}
	if result.Table.LabelHeader != "Period" || result.Table.Rows[0].Label != "1" {
		t.Errorf("rows without a start date should be labelled by period, got %q/%q",
			result.Table.LabelHeader, result.Table.Rows[0].Label)
	}
}

func TestRunAutoLoanAndHomeEquity(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	auto, err := calc.Run(config.Calculation{
		Type: config.TypeAutoLoan,
		AutoLoan: &config.AutoLoanParams{
			VehiclePrice:      30000,
			DownPayment:       5000,
			TradeInValue:      10000,
			SalesTaxPercent:   5,
			AnnualRatePercent: 0,
			TermMonths:        60,
		},
	})
	if err != nil {
		t.Fatalf("Run(auto-loan) error = %v", err)
	}
	testutil.AssertMoney(t, "Sales tax", metricValue(t, auto, "Sales tax"), 1000)
	testutil.AssertMoney(t, "Amount financed", metricValue(t, auto, "Amount financed"), 16000)
	testutil.AssertMoney(t, "Monthly payment", metricValue(t, auto, "Monthly payment"), 266.67)

	equity, err := calc.Run(config.Calculation{
		Type: config.TypeHomeEquity,
		HomeEquity: &config.HomeEquityParams{
			HomeValue:       400000,
			MortgageBalance: 250000,
			MaxLtvPercent:   80,
		},
	})
	if err != nil {
		t.Fatalf("Run(home-equity) error = %v", err)
	}
	testutil.AssertMoney(t, "Max borrowable", metricValue(t, equity, "Max borrowable"), 70000)
	if equity.Table != nil {
		t.Error("no schedule expected without a term")
	}
	if data := equity.Data.(calculator.HomeEquityResult); data.Schedule != nil {
		t.Error("no schedule expected without a term")
	}

	financed, err := calc.Run(config.Calculation{
		Type: config.TypeHomeEquity,
		HomeEquity: &config.HomeEquityParams{
			HomeValue:         400000,
			MortgageBalance:   250000,
			MaxLtvPercent:     80,
			AnnualRatePercent: 0,
			TermMonths:        100,
		},
	})
	if err != nil {
		t.Fatalf("Run(home-equity with term) error = %v", err)
	}
	testutil.AssertMoney(t, "Monthly payment", metricValue(t, financed, "Monthly payment"), 700)
}

func TestRunGrowthAndSavingsGoal(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	growthResult, err := calc.Run(config.Calculation{
		Type: config.TypeGrowth,
		Growth: &config.GrowthParams{
			InitialAmount:               1000,
			AnnualRatePercent:           10,
			Years:                       3,
			CompoundingFrequencyPerYear: 1,
		},
	})
	if err != nil {
		t.Fatalf("Run(growth) error = %v", err)
	}
	testutil.AssertMoney(t, "Final balance", metricValue(t, growthResult, "Final balance"), 1331)
	if len(growthResult.Table.Rows) != 3 {
		t.Errorf("expected 3 projection rows, got %d", len(growthResult.Table.Rows))
	}

	goal, err := calc.Run(config.Calculation{
		Type: config.TypeSavingsGoal,
		SavingsGoal: &config.SavingsGoalParams{
			Goal:                 1200,
			AnnualRatePercent:    0,
			Periods:              12,
			FrequencyPerYear:     12,
			PeriodicContribution: 50,
		},
	})
	if err != nil {
		t.Fatalf("Run(savings-goal) error = %v", err)
	}
	data := goal.Data.(calculator.SavingsGoalResult)
	testutil.AssertMoney(t, "RequiredContribution", data.RequiredContribution, 100)
	if !data.Reached || data.PeriodsToGoal == nil || *data.PeriodsToGoal != 24 {
		t.Errorf("expected 24 periods at 50 per period, got %+v", data)
	}
}

func TestRunTax(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	result, err := calc.Run(config.Calculation{
		Type: config.TypeTax,
		Tax:  &config.TaxParams{TaxableIncome: 85000},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	testutil.AssertMoney(t, "Tax owed", metricValue(t, result, "Tax owed"), 13753)
	if got := metricValue(t, result, "Marginal rate"); got != 22 {
		t.Errorf("Marginal rate = %v, expected 22", got)
	}
	if len(result.Table.Rows) != 3 {
		t.Errorf("expected 3 breakdown rows, got %d", len(result.Table.Rows))
	}

	inline, err := calc.Run(config.Calculation{
		Type: config.TypeTax,
		Tax: &config.TaxParams{
			TaxableIncome: 50000,
			Brackets: []tax.TaxBracket{
				{Lower: 0, Upper: 10000, RatePercent: 10},
				{Lower: 10000, Upper: 40000, RatePercent: 12},
				{Lower: 40000, Upper: 0, RatePercent: 22},
			},
		},
	})
	if err != nil {
		t.Fatalf("Run() with inline brackets error = %v", err)
	}
	data := inline.Data.(calculator.TaxCalculation)
	if data.Table != "inline" || data.TaxOwed != 6800 {
		t.Errorf("inline tax = %+v, expected 6800 from the inline table", data)
	}
}

func TestRunPaycheckAndBonus(t *testing.T) {
	calc := newCalculator(t, calculator.Options{Tables: sampleTables(t), DefaultTable: "sample"})

	paycheck, err := calc.Run(config.Calculation{
		Type: config.TypePaycheck,
		Paycheck: &config.PaycheckParams{
			GrossAnnualIncome: 60000,
			PayPeriodsPerYear: 26,
			PreTaxDeductions:  5000,
			StateRatePercent:  5,
		},
	})
	if err != nil {
		t.Fatalf("Run(paycheck) error = %v", err)
	}
	testutil.AssertMoney(t, "Net annual", metricValue(t, paycheck, "Net annual"), 43354.50)
	testutil.AssertMoney(t, "Net per paycheck", metricValue(t, paycheck, "Net per paycheck"), 1667.48)

	noFICA, err := calc.Run(config.Calculation{
		Type: config.TypePaycheck,
		Paycheck: &config.PaycheckParams{
			GrossAnnualIncome: 60000,
			PayPeriodsPerYear: 26,
			PreTaxDeductions:  5000,
			StateRatePercent:  5,
			FICA:              &tax.FICA{},
		},
	})
	if err != nil {
		t.Fatalf("Run(paycheck without FICA) error = %v", err)
	}
	testutil.AssertMoney(t, "Net annual", metricValue(t, noFICA, "Net annual"), 43354.50+3410+797.50)

	bonus, err := calc.Run(config.Calculation{
		Type:  config.TypeBonus,
		Bonus: &config.BonusParams{BaseTaxableIncome: 35000, Bonus: 10000},
	})
	if err != nil {
		t.Fatalf("Run(bonus) error = %v", err)
	}
	testutil.AssertMoney(t, "Aggregate tax", metricValue(t, bonus, "Aggregate tax"), 1700)
	testutil.AssertMoney(t, "Flat tax", metricValue(t, bonus, "Flat tax"), 2200)
}

func TestRunRatiosAndValuation(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	tests := []struct {
		name     string
		calc     config.Calculation
		label    string
		expected float64
	}{
		{
			name:     "Ratio",
			calc:     config.Calculation{Type: config.TypeRatio, Ratio: &config.RatioParams{Numerator: 1, Denominator: 3}},
			label:    "Ratio",
			expected: 33.33,
		},
		{
			name: "Debt-to-income",
			calc: config.Calculation{Type: config.TypeDebtToIncome, DebtToIncome: &config.DebtToIncomeParams{
				MonthlyDebts: []float64{1200, 500}, GrossMonthlyIncome: 5000,
			}},
			label:    "Debt-to-income",
			expected: 34,
		},
		{
			name:     "Loan-to-value",
			calc:     config.Calculation{Type: config.TypeLoanToValue, LoanToValue: &config.LoanToValueParams{LoanAmount: 240000, PropertyValue: 300000}},
			label:    "Loan-to-value",
			expected: 80,
		},
		{
			name:     "ROI",
			calc:     config.Calculation{Type: config.TypeRoi, Roi: &config.RoiParams{InitialInvestment: 10000, ReturnAmount: 15000, TimeframeYears: 1}},
			label:    "Annualized ROI",
			expected: 50,
		},
		{
			name:     "Break-even",
			calc:     config.Calculation{Type: config.TypeBreakEven, BreakEven: &config.BreakEvenParams{FixedCosts: 10000, PricePerUnit: 50, VariableCostPerUnit: 30}},
			label:    "Break-even units",
			expected: 500,
		},
		{
			name:     "Margin",
			calc:     config.Calculation{Type: config.TypeMargin, Margin: &config.MarginParams{Revenue: 150, Cost: 100}},
			label:    "Markup",
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Run(tt.calc)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := metricValue(t, result, tt.label); got != tt.expected {
				t.Errorf("%s = %v, expected %v", tt.label, got, tt.expected)
			}
		})
	}
}

func TestRunRoiUndefinedAnnualized(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})
	result, err := calc.Run(config.Calculation{
		Type: config.TypeRoi,
		Roi:  &config.RoiParams{InitialInvestment: 100, ReturnAmount: -50, TimeframeYears: 2},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if m := testutil.FindMetric(result, "Annualized ROI"); m == nil || m.Unit != calculator.UnitText {
		t.Errorf("expected an undefined annualized ROI, got %+v", m)
	}
}

func payoffParams() *config.PayoffParams {
	return &config.PayoffParams{
		ExtraMonthlyPayment: 100,
		Debts: []config.DebtParams{
			{ID: "a", Balance: 300, MinimumPayment: 100},
			{Name: "b", Balance: 600, MinimumPayment: 100},
		},
	}
}

func TestRunPayoff(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	result, err := calc.Run(config.Calculation{Type: config.TypePayoff, StartDate: "2025-03", Payoff: payoffParams()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	plan := result.Data.(payoff.PayoffPlan)
	if plan.Policy != payoff.Avalanche {
		t.Errorf("Policy = %q, expected avalanche by default", plan.Policy)
	}
	if !plan.Resolved || plan.MonthsToPayoff != 4 {
		t.Errorf("expected payoff in 4 months, got %+v", plan)
	}
	testutil.AssertMoney(t, "TotalPaid", plan.TotalPaid, 900)
	if m := testutil.FindMetric(result, "Payoff order"); m == nil || m.Text != "a > b" {
		t.Errorf("Payoff order = %+v", m)
	}
	if result.Table == nil || result.Table.Columns[1].Name != "b" || result.Table.Rows[0].Label != "2025-03" {
		t.Errorf("unexpected payoff table: %+v", result.Table)
	}
}

func TestRunPayoffUsesConfiguredDefaults(t *testing.T) {
	calc := newCalculator(t, calculator.Options{Payoff: config.PayoffConfig{MaxMonths: 2}})

	result, err := calc.Run(config.Calculation{Type: config.TypePayoff, Payoff: payoffParams()})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	plan := result.Data.(payoff.PayoffPlan)
	if plan.Resolved || len(plan.Months) != 2 {
		t.Errorf("expected an unresolved 2-month plan, got resolved=%v months=%d", plan.Resolved, len(plan.Months))
	}
	if m := testutil.FindMetric(result, "Months to payoff"); m == nil || m.Unit != calculator.UnitText {
		t.Errorf("expected a text metric for an unresolved plan, got %+v", m)
	}

	params := payoffParams()
	params.MaxMonths = 12
	result, err = calc.Run(config.Calculation{Type: config.TypePayoff, Payoff: params})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if plan := result.Data.(payoff.PayoffPlan); !plan.Resolved {
		t.Error("a per-calculation maxMonths should override the configured default")
	}
}

func TestRunPayoffCompare(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	result, err := calc.Run(config.Calculation{
		Type: config.TypePayoffCompare,
		Payoff: &config.PayoffParams{
			ExtraMonthlyPayment: 500,
			Debts: []config.DebtParams{
				{ID: "small", Balance: 1000, AnnualRatePercent: 5, MinimumPayment: 25},
				{ID: "large", Balance: 5000, AnnualRatePercent: 20, MinimumPayment: 100},
			},
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	comparison := result.Data.(payoff.Comparison)
	if comparison.Recommended != payoff.Avalanche {
		t.Errorf("Recommended = %q, expected avalanche", comparison.Recommended)
	}
	if m := testutil.FindMetric(result, "Recommended"); m == nil || m.Text != "avalanche" {
		t.Errorf("Recommended metric = %+v", m)
	}
	if metricValue(t, result, "Interest saved") <= 0 {
		t.Error("expected avalanche to save interest")
	}
	if testutil.FindMetric(result, "Snowball total interest") == nil {
		t.Error("expected per-policy metrics")
	}
}

func TestRunErrors(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	tests := []struct {
		name  string
		calc  config.Calculation
		field string
	}{
		{
			name:  "Unknown type",
			calc:  config.Calculation{Type: "lottery"},
			field: "type",
		},
		{
			name:  "Missing parameters",
			calc:  config.Calculation{Type: config.TypeGrowth},
			field: "type",
		},
		{
			name:  "Bad start date",
			calc:  config.Calculation{Type: config.TypeRatio, StartDate: "January", Ratio: &config.RatioParams{}},
			field: "startDate",
		},
		{
			name:  "Engine validation",
			calc:  config.Calculation{Type: config.TypeAmortization, Amortization: &config.AmortizationParams{Principal: -1, TermMonths: 12}},
			field: "principal",
		},
		{
			name:  "Unknown tax table",
			calc:  config.Calculation{Type: config.TypeTax, Tax: &config.TaxParams{TaxableIncome: 1, Table: "atlantis"}},
			field: "table",
		},
		{
			name:  "Unknown payoff policy",
			calc:  config.Calculation{Type: config.TypePayoff, Payoff: &config.PayoffParams{Policy: "random", Debts: payoffParams().Debts}},
			field: "policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Run(tt.calc)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !validation.IsValidationError(err) {
				t.Errorf("expected a validation error, got %T: %v", err, err)
			}
			if !result.Failed() || result.Field != tt.field {
				t.Errorf("result field = %q, expected %q (error %q)", result.Field, tt.field, result.Error)
			}
			if result.ID.String() == "" || result.Data != nil {
				t.Errorf("failed result should carry an id and no data: %+v", result)
			}
		})
	}
}

func TestRunAll(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})

	results := calc.RunAll([]config.Calculation{
		{Name: "ratio", Type: config.TypeRatio, Ratio: &config.RatioParams{Numerator: 1, Denominator: 4}},
		{Type: config.TypeLoanToValue, LoanToValue: &config.LoanToValueParams{LoanAmount: 1, PropertyValue: 0}},
		{Name: "loan", Type: config.TypeAmortization, Amortization: &config.AmortizationParams{
			Principal: 1200, TermMonths: 12,
		}},
	})
	if len(results) != 3 {
		t.Fatalf("RunAll() returned %d results, expected 3", len(results))
	}
	if results[0].Failed() || results[2].Failed() {
		t.Errorf("unexpected failures: %q %q", results[0].Error, results[2].Error)
	}
	if !results[1].Failed() || results[1].Field != "propertyValue" {
		t.Errorf("expected the LTV calculation to fail on propertyValue, got %+v", results[1])
	}
	if results[1].Name != "calculation 2 (ltv)" {
		t.Errorf("unnamed result labelled %q", results[1].Name)
	}
	if testutil.FindResult(results, "loan") == nil {
		t.Error("expected to find the loan result by name")
	}
	if results[0].ID == results[2].ID {
		t.Error("each result should get its own id")
	}
}

func TestResultJSON(t *testing.T) {
	calc := newCalculator(t, calculator.Options{})
	result, err := calc.Run(config.Calculation{
		Name: "loan",
		Type: config.TypeAmortization,
		Amortization: &config.AmortizationParams{
			Principal: 1200, TermMonths: 12,
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var decoded struct {
		ID     string `json:"calculationId"`
		Type   string `json:"type"`
		Result struct {
			InitialPayment float64                 `json:"initialPayment"`
			PayoffPeriod   int                     `json:"payoffPeriod"`
			Rows           []loans.AmortizationRow `json:"rows"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.ID != result.ID.String() || decoded.Type != config.TypeAmortization {
		t.Errorf("unexpected envelope: %s", body)
	}
	if decoded.Result.InitialPayment != 100 || decoded.Result.PayoffPeriod != 12 || len(decoded.Result.Rows) != 12 {
		t.Errorf("unexpected result body: %s", body)
	}
	if strings.Contains(string(body), `"Table"`) {
		t.Error("the print table should not be serialized")
	}
}
