// Package calculator turns configured or requested calculations into engine
// calls and collects their results for printing or serving.
package calculator

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/internal/metrics"
	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/datetime"
	"github.com/iwvelando/finance-engine/pkg/tax"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"go.uber.org/zap"
)

// Options configures a Calculator. A nil Tables selects the built-in tables.
type Options struct {
	Tables       *config.TaxTables
	DefaultTable string
	Payoff       config.PayoffConfig
}

// Calculator runs calculations. It holds no per-call state and is safe for
// concurrent use.
type Calculator struct {
	logger       *zap.Logger
	tables       *config.TaxTables
	defaultTable string
	payoff       config.PayoffConfig
}

// outcome is what each calculation type produces on success.
type outcome struct {
	data    interface{}
	summary []Metric
	table   *Table
}

type runFunc func(c *Calculator, calc config.Calculation) (outcome, error)

var runners = map[string]runFunc{
	config.TypeAmortization:  (*Calculator).amortization,
	config.TypeAutoLoan:      (*Calculator).autoLoan,
	config.TypeHomeEquity:    (*Calculator).homeEquity,
	config.TypeGrowth:        (*Calculator).projection,
	config.TypeSavingsGoal:   (*Calculator).savingsGoal,
	config.TypeTax:           (*Calculator).incomeTax,
	config.TypePaycheck:      (*Calculator).paycheck,
	config.TypeBonus:         (*Calculator).bonus,
	config.TypeRatio:         (*Calculator).simpleRatio,
	config.TypeDebtToIncome:  (*Calculator).debtToIncome,
	config.TypeLoanToValue:   (*Calculator).loanToValue,
	config.TypePayoff:        (*Calculator).payoffPlan,
	config.TypePayoffCompare: (*Calculator).payoffCompare,
	config.TypeRoi:           (*Calculator).returnOnInvestment,
	config.TypeBreakEven:     (*Calculator).breakEven,
	config.TypeMargin:        (*Calculator).margin,
}

// New creates a Calculator.
func New(logger *zap.Logger, opts Options) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tables := opts.Tables
	if tables == nil {
		var err error
		if tables, err = config.DefaultTaxTables(); err != nil {
			return nil, err
		}
	}
	defaultTable := opts.DefaultTable
	if defaultTable == "" {
		defaultTable = constants.DefaultTaxTable
	}
	if _, err := tables.Lookup(defaultTable); err != nil {
		return nil, fmt.Errorf("default tax table: %w", err)
	}

	return &Calculator{
		logger:       logger,
		tables:       tables,
		defaultTable: defaultTable,
		payoff:       opts.Payoff,
	}, nil
}

// NewFromConfig creates a Calculator from the tax and payoff sections of conf.
func NewFromConfig(logger *zap.Logger, conf *config.Configuration) (*Calculator, error) {
	tables, err := conf.LoadTaxTables()
	if err != nil {
		return nil, err
	}
	return New(logger, Options{
		Tables:       tables,
		DefaultTable: conf.Tax.DefaultTable,
		Payoff:       conf.Payoff,
	})
}

// Tables returns the bracket tables the calculator resolves names against.
func (c *Calculator) Tables() *config.TaxTables {
	return c.tables
}

// DefaultTable returns the name of the table used when a calculation names none.
func (c *Calculator) DefaultTable() string {
	return c.defaultTable
}

// Run evaluates one calculation. The returned Result always carries an ID;
// on failure its Error and Field are set and the error is also returned.
// Invalid input is reported as a *validation.Error.
func (c *Calculator) Run(calc config.Calculation) (Result, error) {
	start := time.Now()
	result := Result{ID: uuid.New(), Name: calc.Name, Type: calc.Type}

	c.logger.Debug("running calculation",
		zap.String("op", "calculator.Run"),
		zap.String("calculationId", result.ID.String()),
		zap.String("name", calc.Name),
		zap.String("type", calc.Type),
	)

	out, err := c.dispatch(calc)
	result.Elapsed = time.Since(start)
	if err != nil {
		outcomeLabel := metrics.OutcomeError
		result.Error = err.Error()
		if verr, ok := validation.AsError(err); ok {
			outcomeLabel = metrics.OutcomeInvalid
			result.Error = verr.Reason
			result.Field = verr.Field
		}
		metrics.ObserveCalculation(calc.Type, outcomeLabel, result.Elapsed)
		c.logger.Debug("calculation failed",
			zap.String("op", "calculator.Run"),
			zap.String("calculationId", result.ID.String()),
			zap.String("type", calc.Type),
			zap.Error(err),
		)
		return result, err
	}

	result.Data = out.data
	result.Summary = out.summary
	result.Table = out.table
	metrics.ObserveCalculation(calc.Type, metrics.OutcomeOK, result.Elapsed)
	c.logger.Debug("calculation complete",
		zap.String("op", "calculator.Run"),
		zap.String("calculationId", result.ID.String()),
		zap.String("type", calc.Type),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

// RunAll evaluates every calculation in order. Failures are recorded in their
// Result and do not stop the batch.
func (c *Calculator) RunAll(calcs []config.Calculation) []Result {
	results := make([]Result, 0, len(calcs))
	for i, calc := range calcs {
		result, err := c.Run(calc)
		if err != nil {
			c.logger.Warn(fmt.Sprintf("calculation %s failed", calc.Label(i)),
				zap.String("op", "calculator.RunAll"),
				zap.String("calculationId", result.ID.String()),
				zap.Error(err),
			)
		}
		if result.Name == "" {
			result.Name = calc.Label(i)
		}
		results = append(results, result)
	}
	return results
}

func (c *Calculator) dispatch(calc config.Calculation) (outcome, error) {
	run, ok := runners[calc.Type]
	if !ok {
		return outcome{}, validation.Errorf("type", "unknown calculation type %q", calc.Type)
	}
	if _, err := calc.Params(); err != nil {
		return outcome{}, validation.Errorf("type", "%s", err.Error())
	}
	if calc.StartDate != "" {
		if err := datetime.ValidateMonth(calc.StartDate); err != nil {
			return outcome{}, validation.Errorf("startDate", "%s", err.Error())
		}
	}
	return run(c, calc)
}

// table resolves a named bracket table, falling back to the default table.
func (c *Calculator) table(name string) (tax.BracketTable, error) {
	if name == "" {
		name = c.defaultTable
	}
	table, err := c.tables.Lookup(name)
	if err != nil {
		return tax.BracketTable{}, validation.Errorf("table", "%s", err.Error())
	}
	return table, nil
}
