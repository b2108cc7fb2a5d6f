package tax

import (
	"math"

	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
)

// DefaultSupplementalRatePercent is the flat federal withholding rate on
// supplemental wages such as bonuses.
const DefaultSupplementalRatePercent = 22.0

// FICA holds payroll tax parameters. A zero wage base means Social Security
// applies to all wages.
type FICA struct {
	SocialSecurityRatePercent     float64 `yaml:"socialSecurityRatePercent" json:"socialSecurityRatePercent"`
	SocialSecurityWageBase        float64 `yaml:"socialSecurityWageBase" json:"socialSecurityWageBase"`
	MedicareRatePercent           float64 `yaml:"medicareRatePercent" json:"medicareRatePercent"`
	AdditionalMedicareRatePercent float64 `yaml:"additionalMedicareRatePercent" json:"additionalMedicareRatePercent"`
	AdditionalMedicareThreshold   float64 `yaml:"additionalMedicareThreshold" json:"additionalMedicareThreshold"`
}

// DefaultFICA returns the 2024 payroll tax parameters for a single filer.
func DefaultFICA() FICA {
	return FICA{
		SocialSecurityRatePercent:     6.2,
		SocialSecurityWageBase:        168600,
		MedicareRatePercent:           1.45,
		AdditionalMedicareRatePercent: 0.9,
		AdditionalMedicareThreshold:   200000,
	}
}

func (f FICA) validate() error {
	return validation.First(
		validation.NonNegative("fica.socialSecurityRatePercent", f.SocialSecurityRatePercent),
		validation.NonNegative("fica.socialSecurityWageBase", f.SocialSecurityWageBase),
		validation.NonNegative("fica.medicareRatePercent", f.MedicareRatePercent),
		validation.NonNegative("fica.additionalMedicareRatePercent", f.AdditionalMedicareRatePercent),
		validation.NonNegative("fica.additionalMedicareThreshold", f.AdditionalMedicareThreshold),
	)
}

// PaycheckInput describes annual pay. PreTaxDeductions (retirement, health
// premiums) reduce both income tax and payroll tax wages.
type PaycheckInput struct {
	GrossAnnualIncome float64
	PayPeriodsPerYear int
	PreTaxDeductions  float64
	Table             BracketTable
	StateRatePercent  float64
	FICA              FICA
}

// PaycheckResult breaks annual gross pay down to take-home pay.
type PaycheckResult struct {
	GrossAnnualIncome float64   `json:"grossAnnualIncome"`
	PreTaxDeductions  float64   `json:"preTaxDeductions"`
	TaxableIncome     float64   `json:"taxableIncome"`
	Federal           TaxResult `json:"federal"`
	StateTax          float64   `json:"stateTax"`
	SocialSecurity    float64   `json:"socialSecurity"`
	Medicare          float64   `json:"medicare"`
	TotalTax          float64   `json:"totalTax"`
	NetAnnual         float64   `json:"netAnnual"`
	GrossPerPaycheck  float64   `json:"grossPerPaycheck"`
	NetPerPaycheck    float64   `json:"netPerPaycheck"`
}

// TakeHomePay computes federal income tax on wages net of pre-tax deductions
// and the table's standard deduction, a flat state tax and FICA.
func TakeHomePay(in PaycheckInput) (PaycheckResult, error) {
	if err := validation.First(
		validation.NonNegative("grossAnnualIncome", in.GrossAnnualIncome),
		validation.PositiveInt("payPeriodsPerYear", in.PayPeriodsPerYear),
		validation.NonNegative("preTaxDeductions", in.PreTaxDeductions),
		validation.NonNegative("stateRatePercent", in.StateRatePercent),
		in.FICA.validate(),
	); err != nil {
		return PaycheckResult{}, err
	}
	if in.PreTaxDeductions > in.GrossAnnualIncome {
		return PaycheckResult{}, validation.Errorf("preTaxDeductions",
			"%v exceeds gross income %v", in.PreTaxDeductions, in.GrossAnnualIncome)
	}
	if in.StateRatePercent > 100 {
		return PaycheckResult{}, validation.Errorf("stateRatePercent", "must not exceed 100, got %v", in.StateRatePercent)
	}

	wages := in.GrossAnnualIncome - in.PreTaxDeductions
	taxable := math.Max(0, wages-in.Table.StandardDeduction)

	federal, err := ComputeTax(taxable, in.Table)
	if err != nil {
		return PaycheckResult{}, err
	}

	state := mathutil.Round2(wages * mathutil.PercentToDecimal(in.StateRatePercent))
	socialSecurity, medicare := payrollTax(wages, in.FICA)

	total := mathutil.Round2(federal.TaxOwed + state + socialSecurity + medicare)
	net := mathutil.Round2(in.GrossAnnualIncome - in.PreTaxDeductions - total)
	periods := float64(in.PayPeriodsPerYear)

	return PaycheckResult{
		GrossAnnualIncome: mathutil.Round2(in.GrossAnnualIncome),
		PreTaxDeductions:  mathutil.Round2(in.PreTaxDeductions),
		TaxableIncome:     mathutil.Round2(taxable),
		Federal:           federal,
		StateTax:          state,
		SocialSecurity:    socialSecurity,
		Medicare:          medicare,
		TotalTax:          total,
		NetAnnual:         net,
		GrossPerPaycheck:  mathutil.Round2(in.GrossAnnualIncome / periods),
		NetPerPaycheck:    mathutil.Round2(net / periods),
	}, nil
}

func payrollTax(wages float64, f FICA) (socialSecurity, medicare float64) {
	ssWages := wages
	if f.SocialSecurityWageBase > 0 {
		ssWages = math.Min(wages, f.SocialSecurityWageBase)
	}
	socialSecurity = mathutil.Round2(ssWages * mathutil.PercentToDecimal(f.SocialSecurityRatePercent))

	medicare = wages * mathutil.PercentToDecimal(f.MedicareRatePercent)
	if over := wages - f.AdditionalMedicareThreshold; f.AdditionalMedicareRatePercent > 0 && over > 0 {
		medicare += over * mathutil.PercentToDecimal(f.AdditionalMedicareRatePercent)
	}
	return socialSecurity, mathutil.Round2(medicare)
}

// BonusInput describes a one-off bonus paid on top of base income.
type BonusInput struct {
	BaseTaxableIncome float64
	Bonus             float64
	Table             BracketTable
	// FlatRatePercent is the supplemental withholding rate; 0 selects
	// DefaultSupplementalRatePercent.
	FlatRatePercent float64
}

// BonusResult compares the aggregate method (the extra tax the bonus actually
// causes) with flat supplemental withholding.
type BonusResult struct {
	Bonus               float64 `json:"bonus"`
	AggregateTax        float64 `json:"aggregateTax"`
	AggregateNet        float64 `json:"aggregateNet"`
	FlatRatePercent     float64 `json:"flatRatePercent"`
	FlatTax             float64 `json:"flatTax"`
	FlatNet             float64 `json:"flatNet"`
	MarginalRatePercent float64 `json:"marginalRatePercent"`
}

// BonusTax computes tax on a bonus both ways.
func BonusTax(in BonusInput) (BonusResult, error) {
	if err := validation.First(
		validation.NonNegative("baseTaxableIncome", in.BaseTaxableIncome),
		validation.Positive("bonus", in.Bonus),
		validation.NonNegative("flatRatePercent", in.FlatRatePercent),
	); err != nil {
		return BonusResult{}, err
	}

	without, err := ComputeTax(in.BaseTaxableIncome, in.Table)
	if err != nil {
		return BonusResult{}, err
	}
	with, err := ComputeTax(in.BaseTaxableIncome+in.Bonus, in.Table)
	if err != nil {
		return BonusResult{}, err
	}

	flatRate := in.FlatRatePercent
	if flatRate == 0 {
		flatRate = DefaultSupplementalRatePercent
	}
	bonus := mathutil.Round2(in.Bonus)
	aggregate := mathutil.Round2(with.TaxOwed - without.TaxOwed)
	flat := mathutil.Round2(bonus * mathutil.PercentToDecimal(flatRate))

	return BonusResult{
		Bonus:               bonus,
		AggregateTax:        aggregate,
		AggregateNet:        mathutil.Round2(bonus - aggregate),
		FlatRatePercent:     flatRate,
		FlatTax:             flat,
		FlatNet:             mathutil.Round2(bonus - flat),
		MarginalRatePercent: with.MarginalRatePercent,
	}, nil
}
