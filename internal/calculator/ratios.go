package calculator

import (
	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/ratio"
	"github.com/iwvelando/finance-engine/pkg/roi"
)

func (c *Calculator) simpleRatio(calc config.Calculation) (outcome, error) {
	result := ratio.ComputeRatio(calc.Ratio.Numerator, calc.Ratio.Denominator)
	return outcome{data: result, summary: []Metric{percent("Ratio", result.RatioPercent)}}, nil
}

func (c *Calculator) debtToIncome(calc config.Calculation) (outcome, error) {
	p := calc.DebtToIncome
	result, err := ratio.DebtToIncome(p.MonthlyDebts, p.GrossMonthlyIncome)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		data: result,
		summary: []Metric{
			currency("Monthly debt", result.TotalMonthlyDebt),
			currency("Gross monthly income", result.GrossMonthlyIncome),
			percent("Debt-to-income", result.RatioPercent),
		},
	}, nil
}

func (c *Calculator) loanToValue(calc config.Calculation) (outcome, error) {
	p := calc.LoanToValue
	result, err := ratio.LoanToValue(p.LoanAmount, p.PropertyValue)
	if err != nil {
		return outcome{}, err
	}
	return outcome{data: result, summary: []Metric{percent("Loan-to-value", result.RatioPercent)}}, nil
}

func (c *Calculator) returnOnInvestment(calc config.Calculation) (outcome, error) {
	p := calc.Roi
	result, err := roi.ComputeRoi(p.InitialInvestment, p.ReturnAmount, p.TimeframeYears)
	if err != nil {
		return outcome{}, err
	}
	summary := []Metric{
		currency("Net profit", result.NetProfit),
		percent("ROI", result.RoiPercent),
	}
	if result.AnnualizedRoiPercent != nil {
		summary = append(summary, percent("Annualized ROI", *result.AnnualizedRoiPercent))
	} else {
		summary = append(summary, text("Annualized ROI", "undefined"))
	}
	return outcome{data: result, summary: summary}, nil
}

func (c *Calculator) breakEven(calc config.Calculation) (outcome, error) {
	p := calc.BreakEven
	result, err := roi.BreakEven(p.FixedCosts, p.PricePerUnit, p.VariableCostPerUnit)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		data: result,
		summary: []Metric{
			currency("Contribution margin per unit", result.ContributionMarginPerUnit),
			percent("Contribution margin ratio", result.ContributionMarginRatioPercent),
			count("Break-even units", int(result.Units)),
			currency("Break-even revenue", result.Revenue),
		},
	}, nil
}

func (c *Calculator) margin(calc config.Calculation) (outcome, error) {
	p := calc.Margin
	result, err := roi.ComputeMargin(p.Revenue, p.Cost)
	if err != nil {
		return outcome{}, err
	}
	return outcome{
		data: result,
		summary: []Metric{
			currency("Gross profit", result.GrossProfit),
			percent("Margin", result.MarginPercent),
			percent("Markup", result.MarkupPercent),
		},
	}, nil
}
