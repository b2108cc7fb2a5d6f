// Package constants provides shared constants for the finance-engine application.
package constants

// DateTimeLayout is the month format accepted for schedule start dates and used
// when labelling schedule rows.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimal places kept for currency amounts
	DecimalPlaces = 2

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Simulation limits
const (
	// DefaultPayoffHorizonMonths caps the debt payoff simulation (100 years).
	DefaultPayoffHorizonMonths = 1200

	// MaxGrowthPeriods caps growth projections and goal searches.
	MaxGrowthPeriods = 100 * 366

	// MaxTermMonths is the longest loan term accepted (50 years).
	MaxTermMonths = 600
)

// Payoff ordering policies
const (
	// PolicySnowball orders debts by ascending balance
	PolicySnowball = "snowball"

	// PolicyAvalanche orders debts by descending interest rate
	PolicyAvalanche = "avalanche"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "FINANCE_ENGINE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum JSON request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024

	// DefaultRequestTimeoutSeconds bounds a single API request
	DefaultRequestTimeoutSeconds = 30
)

// DefaultTaxTable is the name of the bracket table used when a request does not
// name one.
const DefaultTaxTable = "us-federal-2024-single"
