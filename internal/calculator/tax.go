package calculator

import (
	"strconv"

	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/tax"
)

// TaxCalculation is a tax result together with the table that produced it.
type TaxCalculation struct {
	Table string `json:"table"`
	tax.TaxResult
}

// inlineTableName names bracket tables supplied with the request.
const inlineTableName = "inline"

func (c *Calculator) incomeTax(calc config.Calculation) (outcome, error) {
	p := calc.Tax
	table, err := c.resolveTable(p.Table, p.Brackets)
	if err != nil {
		return outcome{}, err
	}
	result, err := tax.ComputeTax(p.TaxableIncome, table)
	if err != nil {
		return outcome{}, err
	}

	t := &Table{
		Title:       "Bracket breakdown",
		LabelHeader: "Bracket",
		Columns: []Column{
			{Name: "Lower", Unit: UnitCurrency},
			{Name: "Upper", Unit: UnitCurrency},
			{Name: "Rate", Unit: UnitPercent},
			{Name: "Taxed", Unit: UnitCurrency},
			{Name: "Tax", Unit: UnitCurrency},
		},
		Rows: make([]TableRow, len(result.Breakdown)),
	}
	for i, portion := range result.Breakdown {
		t.Rows[i] = TableRow{
			Label: strconv.Itoa(i + 1),
			Values: []float64{
				portion.Bracket.Lower, portion.Bracket.Upper, portion.Bracket.RatePercent,
				portion.AmountTaxed, portion.Tax,
			},
		}
	}

	return outcome{
		data: TaxCalculation{Table: table.Name, TaxResult: result},
		summary: []Metric{
			text("Table", table.Name),
			currency("Taxable income", result.TaxableIncome),
			currency("Tax owed", result.TaxOwed),
			percent("Effective rate", result.EffectiveRatePercent),
			percent("Marginal rate", result.MarginalRatePercent),
		},
		table: t,
	}, nil
}

func (c *Calculator) paycheck(calc config.Calculation) (outcome, error) {
	p := calc.Paycheck
	table, err := c.table(p.Table)
	if err != nil {
		return outcome{}, err
	}
	fica := tax.DefaultFICA()
	if p.FICA != nil {
		fica = *p.FICA
	}

	result, err := tax.TakeHomePay(tax.PaycheckInput{
		GrossAnnualIncome: p.GrossAnnualIncome,
		PayPeriodsPerYear: p.PayPeriodsPerYear,
		PreTaxDeductions:  p.PreTaxDeductions,
		Table:             table,
		StateRatePercent:  p.StateRatePercent,
		FICA:              fica,
	})
	if err != nil {
		return outcome{}, err
	}

	return outcome{
		data: result,
		summary: []Metric{
			text("Table", table.Name),
			currency("Taxable income", result.TaxableIncome),
			currency("Federal tax", result.Federal.TaxOwed),
			currency("State tax", result.StateTax),
			currency("Social Security", result.SocialSecurity),
			currency("Medicare", result.Medicare),
			currency("Total tax", result.TotalTax),
			currency("Net annual", result.NetAnnual),
			currency("Gross per paycheck", result.GrossPerPaycheck),
			currency("Net per paycheck", result.NetPerPaycheck),
		},
	}, nil
}

func (c *Calculator) bonus(calc config.Calculation) (outcome, error) {
	p := calc.Bonus
	table, err := c.table(p.Table)
	if err != nil {
		return outcome{}, err
	}
	result, err := tax.BonusTax(tax.BonusInput{
		BaseTaxableIncome: p.BaseTaxableIncome,
		Bonus:             p.Bonus,
		Table:             table,
		FlatRatePercent:   p.FlatRatePercent,
	})
	if err != nil {
		return outcome{}, err
	}

	return outcome{
		data: result,
		summary: []Metric{
			currency("Bonus", result.Bonus),
			currency("Aggregate tax", result.AggregateTax),
			currency("Aggregate net", result.AggregateNet),
			percent("Flat rate", result.FlatRatePercent),
			currency("Flat tax", result.FlatTax),
			currency("Flat net", result.FlatNet),
			percent("Marginal rate", result.MarginalRatePercent),
		},
	}, nil
}

// resolveTable prefers inline brackets over a table name.
func (c *Calculator) resolveTable(name string, brackets []tax.TaxBracket) (tax.BracketTable, error) {
	if len(brackets) > 0 {
		return tax.BracketTable{Name: inlineTableName, Brackets: brackets}, nil
	}
	return c.table(name)
}
