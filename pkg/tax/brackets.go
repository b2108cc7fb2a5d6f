// Package tax computes progressive income tax from bracket tables, plus the
// take-home pay and bonus calculators built on it.
package tax

import (
	"github.com/iwvelando/finance-engine/pkg/mathutil"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"github.com/shopspring/decimal"
)

// TaxBracket taxes income in (Lower, Upper] at RatePercent. Upper == 0 marks
// the unbounded top bracket.
type TaxBracket struct {
	Lower       float64 `yaml:"lower" json:"lower" toml:"lower"`
	Upper       float64 `yaml:"upper" json:"upper" toml:"upper"`
	RatePercent float64 `yaml:"ratePercent" json:"ratePercent" toml:"rate_percent"`
}

// Unbounded reports whether the bracket has no upper threshold.
func (b TaxBracket) Unbounded() bool {
	return b.Upper == 0
}

// BracketTable is an ordered, contiguous set of brackets starting at 0.
type BracketTable struct {
	Name              string       `yaml:"name" json:"name" toml:"name"`
	FilingStatus      string       `yaml:"filingStatus" json:"filingStatus" toml:"filing_status"`
	Year              int          `yaml:"year" json:"year" toml:"year"`
	StandardDeduction float64      `yaml:"standardDeduction" json:"standardDeduction" toml:"standard_deduction"`
	Brackets          []TaxBracket `yaml:"brackets" json:"brackets" toml:"brackets"`
}

// BracketPortion is the slice of income taxed inside one bracket.
type BracketPortion struct {
	Bracket     TaxBracket `json:"bracket"`
	AmountTaxed float64    `json:"amountTaxed"`
	Tax         float64    `json:"tax"`
}

// TaxResult is the outcome of ComputeTax.
type TaxResult struct {
	TaxableIncome        float64          `json:"taxableIncome"`
	TaxOwed              float64          `json:"taxOwed"`
	EffectiveRatePercent float64          `json:"effectiveRatePercent"`
	MarginalRatePercent  float64          `json:"marginalRatePercent"`
	Breakdown            []BracketPortion `json:"breakdown"`
}

// ValidateTable checks that brackets are ordered, contiguous, start at zero and
// end with a single unbounded bracket.
func ValidateTable(table BracketTable) error {
	if len(table.Brackets) == 0 {
		return validation.Errorf("brackets", "table %q has no brackets", table.Name)
	}
	if table.Brackets[0].Lower != 0 {
		return validation.Errorf("brackets", "first bracket must start at 0, got %v", table.Brackets[0].Lower)
	}
	if err := validation.NonNegative("standardDeduction", table.StandardDeduction); err != nil {
		return err
	}

	last := len(table.Brackets) - 1
	for i, b := range table.Brackets {
		if err := validation.First(
			validation.NonNegative("brackets", b.Lower),
			validation.NonNegative("brackets", b.Upper),
			validation.NonNegative("brackets", b.RatePercent),
		); err != nil {
			return err
		}
		if b.RatePercent > 100 {
			return validation.Errorf("brackets", "bracket %d rate %v exceeds 100%%", i+1, b.RatePercent)
		}
		if i > 0 && b.Lower != table.Brackets[i-1].Upper {
			return validation.Errorf("brackets", "bracket %d starts at %v but the previous one ends at %v",
				i+1, b.Lower, table.Brackets[i-1].Upper)
		}
		if i == last {
			if !b.Unbounded() {
				return validation.Errorf("brackets", "top bracket must be unbounded (upper 0), got %v", b.Upper)
			}
			continue
		}
		if b.Upper <= b.Lower {
			return validation.Errorf("brackets", "bracket %d upper %v must exceed lower %v", i+1, b.Upper, b.Lower)
		}
	}
	return nil
}

// ComputeTax walks the brackets in order and taxes only the slice of income
// inside each one. Income equal to a threshold stays in the lower bracket.
func ComputeTax(taxableIncome float64, table BracketTable) (TaxResult, error) {
	if err := ValidateTable(table); err != nil {
		return TaxResult{}, err
	}
	if err := validation.Finite("taxableIncome", taxableIncome); err != nil {
		return TaxResult{}, err
	}
	if taxableIncome <= 0 {
		return TaxResult{Breakdown: []BracketPortion{}}, nil
	}

	income := decimal.NewFromFloat(taxableIncome)
	total := decimal.Zero
	result := TaxResult{TaxableIncome: mathutil.Round2(taxableIncome)}

	for _, b := range table.Brackets {
		top := income
		if !b.Unbounded() && b.Upper < taxableIncome {
			top = decimal.NewFromFloat(b.Upper)
		}
		amount := decimal.Max(decimal.Zero, top.Sub(decimal.NewFromFloat(b.Lower)))
		tax := amount.Mul(decimal.NewFromFloat(b.RatePercent)).Div(decimal.NewFromInt(100))
		total = total.Add(tax)

		result.Breakdown = append(result.Breakdown, BracketPortion{
			Bracket:     b,
			AmountTaxed: mathutil.Float(mathutil.RoundCents(amount)),
			Tax:         mathutil.Float(mathutil.RoundCents(tax)),
		})
		result.MarginalRatePercent = b.RatePercent

		if b.Unbounded() || taxableIncome <= b.Upper {
			break
		}
	}

	result.TaxOwed = mathutil.Float(mathutil.RoundCents(total))
	result.EffectiveRatePercent = mathutil.Round2(
		mathutil.DecimalToPercent(mathutil.SafeDivide(result.TaxOwed, taxableIncome, 0)))
	return result, nil
}

// MarginalRate returns the rate of the bracket that contains income.
func MarginalRate(income float64, table BracketTable) float64 {
	for _, b := range table.Brackets {
		if b.Unbounded() || income <= b.Upper {
			return b.RatePercent
		}
	}
	return 0
}
