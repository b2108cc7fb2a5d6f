package config

import (
	"fmt"

	"github.com/iwvelando/finance-engine/pkg/tax"
)

// Calculation types accepted in the calculations list and as API routes.
const (
	TypeAmortization  = "amortization"
	TypeAutoLoan      = "auto-loan"
	TypeHomeEquity    = "home-equity"
	TypeGrowth        = "growth"
	TypeSavingsGoal   = "savings-goal"
	TypeTax           = "tax"
	TypePaycheck      = "paycheck"
	TypeBonus         = "bonus"
	TypeRatio         = "ratio"
	TypeDebtToIncome  = "dti"
	TypeLoanToValue   = "ltv"
	TypePayoff        = "payoff"
	TypePayoffCompare = "payoff-compare"
	TypeRoi           = "roi"
	TypeBreakEven     = "break-even"
	TypeMargin        = "margin"
)

// calculationTypes maps each type to the key of its parameter block.
var calculationTypes = []struct {
	Type string
	Key  string
}{
	{TypeAmortization, "amortization"},
	{TypeAutoLoan, "autoLoan"},
	{TypeHomeEquity, "homeEquity"},
	{TypeGrowth, "growth"},
	{TypeSavingsGoal, "savingsGoal"},
	{TypeTax, "tax"},
	{TypePaycheck, "paycheck"},
	{TypeBonus, "bonus"},
	{TypeRatio, "ratio"},
	{TypeDebtToIncome, "debtToIncome"},
	{TypeLoanToValue, "loanToValue"},
	{TypePayoff, "payoff"},
	{TypePayoffCompare, "payoff"},
	{TypeRoi, "roi"},
	{TypeBreakEven, "breakEven"},
	{TypeMargin, "margin"},
}

// CalculationTypes lists every supported calculation type.
func CalculationTypes() []string {
	types := make([]string, len(calculationTypes))
	for i, ct := range calculationTypes {
		types[i] = ct.Type
	}
	return types
}

// IsCalculationType reports whether t is a supported calculation type.
func IsCalculationType(t string) bool {
	return paramsKey(t) != ""
}

func paramsKey(t string) string {
	for _, ct := range calculationTypes {
		if ct.Type == t {
			return ct.Key
		}
	}
	return ""
}

// Calculation is one entry of the calculations list. Only the parameter block
// matching Type is read.
type Calculation struct {
	Name string `yaml:"name" json:"name,omitempty"`
	Type string `yaml:"type" json:"type"`
	// StartDate (YYYY-MM) labels the rows of month-based schedules.
	StartDate string `yaml:"startDate,omitempty" json:"startDate,omitempty"`

	Amortization *AmortizationParams `yaml:"amortization,omitempty" json:"amortization,omitempty"`
	AutoLoan     *AutoLoanParams     `yaml:"autoLoan,omitempty" json:"autoLoan,omitempty"`
	HomeEquity   *HomeEquityParams   `yaml:"homeEquity,omitempty" json:"homeEquity,omitempty"`
	Growth       *GrowthParams       `yaml:"growth,omitempty" json:"growth,omitempty"`
	SavingsGoal  *SavingsGoalParams  `yaml:"savingsGoal,omitempty" json:"savingsGoal,omitempty"`
	Tax          *TaxParams          `yaml:"tax,omitempty" json:"tax,omitempty"`
	Paycheck     *PaycheckParams     `yaml:"paycheck,omitempty" json:"paycheck,omitempty"`
	Bonus        *BonusParams        `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	Ratio        *RatioParams        `yaml:"ratio,omitempty" json:"ratio,omitempty"`
	DebtToIncome *DebtToIncomeParams `yaml:"debtToIncome,omitempty" json:"debtToIncome,omitempty"`
	LoanToValue  *LoanToValueParams  `yaml:"loanToValue,omitempty" json:"loanToValue,omitempty"`
	Payoff       *PayoffParams       `yaml:"payoff,omitempty" json:"payoff,omitempty"`
	Roi          *RoiParams          `yaml:"roi,omitempty" json:"roi,omitempty"`
	BreakEven    *BreakEvenParams    `yaml:"breakEven,omitempty" json:"breakEven,omitempty"`
	Margin       *MarginParams       `yaml:"margin,omitempty" json:"margin,omitempty"`
}

// Label names the calculation in messages, falling back to its position.
func (c Calculation) Label(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("calculation %d (%s)", index+1, c.Type)
}

// Params returns the parameter block for the calculation's type.
func (c *Calculation) Params() (interface{}, error) {
	key := paramsKey(c.Type)
	if key == "" {
		return nil, fmt.Errorf("unknown calculation type %q", c.Type)
	}
	params, ok := c.block(key, false)
	if !ok {
		return nil, fmt.Errorf("missing %s parameters for %s calculation", key, c.Type)
	}
	return params, nil
}

// ParamsTarget allocates the parameter block for the calculation's type, if
// needed, and returns a pointer to decode request bodies into.
func (c *Calculation) ParamsTarget() (interface{}, error) {
	key := paramsKey(c.Type)
	if key == "" {
		return nil, fmt.Errorf("unknown calculation type %q", c.Type)
	}
	params, _ := c.block(key, true)
	return params, nil
}

func (c *Calculation) extraParams() []string {
	own := paramsKey(c.Type)
	var extra []string
	seen := make(map[string]bool)
	for _, ct := range calculationTypes {
		if ct.Key == own || seen[ct.Key] {
			continue
		}
		seen[ct.Key] = true
		if _, ok := c.block(ct.Key, false); ok {
			extra = append(extra, ct.Key)
		}
	}
	return extra
}

func (c *Calculation) block(key string, allocate bool) (interface{}, bool) {
	switch key {
	case "amortization":
		if c.Amortization == nil && allocate {
			c.Amortization = &AmortizationParams{}
		}
		return c.Amortization, c.Amortization != nil
	case "autoLoan":
		if c.AutoLoan == nil && allocate {
			c.AutoLoan = &AutoLoanParams{}
		}
		return c.AutoLoan, c.AutoLoan != nil
	case "homeEquity":
		if c.HomeEquity == nil && allocate {
			c.HomeEquity = &HomeEquityParams{}
		}
		return c.HomeEquity, c.HomeEquity != nil
	case "growth":
		if c.Growth == nil && allocate {
			c.Growth = &GrowthParams{}
		}
		return c.Growth, c.Growth != nil
	case "savingsGoal":
		if c.SavingsGoal == nil && allocate {
			c.SavingsGoal = &SavingsGoalParams{}
		}
		return c.SavingsGoal, c.SavingsGoal != nil
	case "tax":
		if c.Tax == nil && allocate {
			c.Tax = &TaxParams{}
		}
		return c.Tax, c.Tax != nil
	case "paycheck":
		if c.Paycheck == nil && allocate {
			c.Paycheck = &PaycheckParams{}
		}
		return c.Paycheck, c.Paycheck != nil
	case "bonus":
		if c.Bonus == nil && allocate {
			c.Bonus = &BonusParams{}
		}
		return c.Bonus, c.Bonus != nil
	case "ratio":
		if c.Ratio == nil && allocate {
			c.Ratio = &RatioParams{}
		}
		return c.Ratio, c.Ratio != nil
	case "debtToIncome":
		if c.DebtToIncome == nil && allocate {
			c.DebtToIncome = &DebtToIncomeParams{}
		}
		return c.DebtToIncome, c.DebtToIncome != nil
	case "loanToValue":
		if c.LoanToValue == nil && allocate {
			c.LoanToValue = &LoanToValueParams{}
		}
		return c.LoanToValue, c.LoanToValue != nil
	case "payoff":
		if c.Payoff == nil && allocate {
			c.Payoff = &PayoffParams{}
		}
		return c.Payoff, c.Payoff != nil
	case "roi":
		if c.Roi == nil && allocate {
			c.Roi = &RoiParams{}
		}
		return c.Roi, c.Roi != nil
	case "breakEven":
		if c.BreakEven == nil && allocate {
			c.BreakEven = &BreakEvenParams{}
		}
		return c.BreakEven, c.BreakEven != nil
	case "margin":
		if c.Margin == nil && allocate {
			c.Margin = &MarginParams{}
		}
		return c.Margin, c.Margin != nil
	}
	return nil, false
}

// AmortizationParams describes a fixed or adjustable-rate loan. TermYears is
// used when TermMonths is zero.
type AmortizationParams struct {
	Principal             float64    `yaml:"principal" json:"principal"`
	AnnualRatePercent     float64    `yaml:"annualRatePercent" json:"annualRatePercent"`
	TermMonths            int        `yaml:"termMonths,omitempty" json:"termMonths,omitempty"`
	TermYears             float64    `yaml:"termYears,omitempty" json:"termYears,omitempty"`
	ExtraMonthlyPrincipal float64    `yaml:"extraMonthlyPrincipal,omitempty" json:"extraMonthlyPrincipal,omitempty"`
	ARM                   *ARMParams `yaml:"arm,omitempty" json:"arm,omitempty"`
}

// ARMParams describes the adjustable-rate terms. Without an index the rate
// follows the worst case allowed by the caps.
type ARMParams struct {
	FixedPeriodMonths      int     `yaml:"fixedPeriodMonths" json:"fixedPeriodMonths"`
	AdjustmentPeriodMonths int     `yaml:"adjustmentPeriodMonths" json:"adjustmentPeriodMonths"`
	InitialCapPercent      float64 `yaml:"initialCapPercent" json:"initialCapPercent"`
	PeriodicCapPercent     float64 `yaml:"periodicCapPercent" json:"periodicCapPercent"`
	LifetimeCapPercent     float64 `yaml:"lifetimeCapPercent" json:"lifetimeCapPercent"`
	MarginPercent          float64 `yaml:"marginPercent,omitempty" json:"marginPercent,omitempty"`
	// IndexRatePercent holds the index constant for the whole loan.
	IndexRatePercent *float64 `yaml:"indexRatePercent,omitempty" json:"indexRatePercent,omitempty"`
	// IndexSteps changes the index from a given period onwards.
	IndexSteps []IndexStepParams `yaml:"indexSteps,omitempty" json:"indexSteps,omitempty"`
}

// IndexStepParams sets the index rate from FromPeriod onwards.
type IndexStepParams struct {
	FromPeriod  int     `yaml:"fromPeriod" json:"fromPeriod"`
	RatePercent float64 `yaml:"ratePercent" json:"ratePercent"`
}

// AutoLoanParams describes a vehicle purchase and its financing.
type AutoLoanParams struct {
	VehiclePrice      float64 `yaml:"vehiclePrice" json:"vehiclePrice"`
	DownPayment       float64 `yaml:"downPayment,omitempty" json:"downPayment,omitempty"`
	TradeInValue      float64 `yaml:"tradeInValue,omitempty" json:"tradeInValue,omitempty"`
	TradeInPayoff     float64 `yaml:"tradeInPayoff,omitempty" json:"tradeInPayoff,omitempty"`
	SalesTaxPercent   float64 `yaml:"salesTaxPercent,omitempty" json:"salesTaxPercent,omitempty"`
	Fees              float64 `yaml:"fees,omitempty" json:"fees,omitempty"`
	AnnualRatePercent float64 `yaml:"annualRatePercent" json:"annualRatePercent"`
	TermMonths        int     `yaml:"termMonths" json:"termMonths"`
}

// HomeEquityParams describes a home-equity borrowing question. When
// TermMonths is set the maximum borrowable amount is also amortized.
type HomeEquityParams struct {
	HomeValue         float64 `yaml:"homeValue" json:"homeValue"`
	MortgageBalance   float64 `yaml:"mortgageBalance" json:"mortgageBalance"`
	MaxLtvPercent     float64 `yaml:"maxLtvPercent" json:"maxLtvPercent"`
	AnnualRatePercent float64 `yaml:"annualRatePercent,omitempty" json:"annualRatePercent,omitempty"`
	TermMonths        int     `yaml:"termMonths,omitempty" json:"termMonths,omitempty"`
}

// GrowthParams describes a compound growth projection. Years is converted
// into compounding periods when Periods is zero.
type GrowthParams struct {
	InitialAmount                float64 `yaml:"initialAmount" json:"initialAmount"`
	PeriodicContribution         float64 `yaml:"periodicContribution,omitempty" json:"periodicContribution,omitempty"`
	AnnualRatePercent            float64 `yaml:"annualRatePercent" json:"annualRatePercent"`
	Periods                      int     `yaml:"periods,omitempty" json:"periods,omitempty"`
	Years                        float64 `yaml:"years,omitempty" json:"years,omitempty"`
	CompoundingFrequencyPerYear  int     `yaml:"compoundingFrequencyPerYear" json:"compoundingFrequencyPerYear"`
	ContributionFrequencyPerYear int     `yaml:"contributionFrequencyPerYear,omitempty" json:"contributionFrequencyPerYear,omitempty"`
}

// SavingsGoalParams asks what deposit reaches Goal in time. With a
// PeriodicContribution it also reports how long that deposit takes.
type SavingsGoalParams struct {
	Goal                 float64 `yaml:"goal" json:"goal"`
	InitialAmount        float64 `yaml:"initialAmount,omitempty" json:"initialAmount,omitempty"`
	AnnualRatePercent    float64 `yaml:"annualRatePercent" json:"annualRatePercent"`
	Periods              int     `yaml:"periods,omitempty" json:"periods,omitempty"`
	Years                float64 `yaml:"years,omitempty" json:"years,omitempty"`
	FrequencyPerYear     int     `yaml:"frequencyPerYear" json:"frequencyPerYear"`
	PeriodicContribution float64 `yaml:"periodicContribution,omitempty" json:"periodicContribution,omitempty"`
}

// TaxParams computes tax on TaxableIncome with a named table or inline
// brackets.
type TaxParams struct {
	TaxableIncome float64          `yaml:"taxableIncome" json:"taxableIncome"`
	Table         string           `yaml:"table,omitempty" json:"table,omitempty"`
	Brackets      []tax.TaxBracket `yaml:"brackets,omitempty" json:"brackets,omitempty"`
}

// PaycheckParams describes annual pay for a take-home calculation. A nil
// FICA uses the current payroll tax parameters.
type PaycheckParams struct {
	GrossAnnualIncome float64   `yaml:"grossAnnualIncome" json:"grossAnnualIncome"`
	PayPeriodsPerYear int       `yaml:"payPeriodsPerYear" json:"payPeriodsPerYear"`
	PreTaxDeductions  float64   `yaml:"preTaxDeductions,omitempty" json:"preTaxDeductions,omitempty"`
	StateRatePercent  float64   `yaml:"stateRatePercent,omitempty" json:"stateRatePercent,omitempty"`
	Table             string    `yaml:"table,omitempty" json:"table,omitempty"`
	FICA              *tax.FICA `yaml:"fica,omitempty" json:"fica,omitempty"`
}

// BonusParams describes a bonus on top of base taxable income.
type BonusParams struct {
	BaseTaxableIncome float64 `yaml:"baseTaxableIncome" json:"baseTaxableIncome"`
	Bonus             float64 `yaml:"bonus" json:"bonus"`
	FlatRatePercent   float64 `yaml:"flatRatePercent,omitempty" json:"flatRatePercent,omitempty"`
	Table             string  `yaml:"table,omitempty" json:"table,omitempty"`
}

// RatioParams is a generic monthly ratio.
type RatioParams struct {
	Numerator   float64 `yaml:"numerator" json:"numerator"`
	Denominator float64 `yaml:"denominator" json:"denominator"`
}

// DebtToIncomeParams lists monthly debt payments against gross monthly income.
type DebtToIncomeParams struct {
	MonthlyDebts       []float64 `yaml:"monthlyDebts" json:"monthlyDebts"`
	GrossMonthlyIncome float64   `yaml:"grossMonthlyIncome" json:"grossMonthlyIncome"`
}

// LoanToValueParams relates a loan to the value of the property securing it.
type LoanToValueParams struct {
	LoanAmount    float64 `yaml:"loanAmount" json:"loanAmount"`
	PropertyValue float64 `yaml:"propertyValue" json:"propertyValue"`
}

// PayoffParams describes a debt portfolio. Unset MaxMonths and
// RolloverMinimums fall back to the payoff section of the configuration.
type PayoffParams struct {
	Debts               []DebtParams `yaml:"debts" json:"debts"`
	ExtraMonthlyPayment float64      `yaml:"extraMonthlyPayment,omitempty" json:"extraMonthlyPayment,omitempty"`
	Policy              string       `yaml:"policy,omitempty" json:"policy,omitempty"`
	MaxMonths           int          `yaml:"maxMonths,omitempty" json:"maxMonths,omitempty"`
	RolloverMinimums    *bool        `yaml:"rolloverMinimums,omitempty" json:"rolloverMinimums,omitempty"`
}

// DebtParams is one debt of a portfolio. Name is used as the id when ID is empty.
type DebtParams struct {
	ID                string  `yaml:"id,omitempty" json:"id,omitempty"`
	Name              string  `yaml:"name,omitempty" json:"name,omitempty"`
	Balance           float64 `yaml:"balance" json:"balance"`
	AnnualRatePercent float64 `yaml:"annualRatePercent" json:"annualRatePercent"`
	MinimumPayment    float64 `yaml:"minimumPayment" json:"minimumPayment"`
}

// RoiParams describes an investment outcome.
type RoiParams struct {
	InitialInvestment float64 `yaml:"initialInvestment" json:"initialInvestment"`
	ReturnAmount      float64 `yaml:"returnAmount" json:"returnAmount"`
	TimeframeYears    float64 `yaml:"timeframeYears" json:"timeframeYears"`
}

// BreakEvenParams describes unit economics.
type BreakEvenParams struct {
	FixedCosts          float64 `yaml:"fixedCosts" json:"fixedCosts"`
	PricePerUnit        float64 `yaml:"pricePerUnit" json:"pricePerUnit"`
	VariableCostPerUnit float64 `yaml:"variableCostPerUnit" json:"variableCostPerUnit"`
}

// MarginParams relates revenue to cost.
type MarginParams struct {
	Revenue float64 `yaml:"revenue" json:"revenue"`
	Cost    float64 `yaml:"cost" json:"cost"`
}
