// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/spf13/viper"
)

// DateTimeLayout is the month format expected for calculation start dates and
// used to label schedule rows.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for finance-engine.
type Configuration struct {
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
	Server       ServerConfig  `yaml:"server,omitempty"`
	Tax          TaxConfig     `yaml:"tax,omitempty"`
	Payoff       PayoffConfig  `yaml:"payoff,omitempty"`
	Calculations []Calculation `yaml:"calculations,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
	// MaxRows truncates printed schedules; 0 prints every row.
	MaxRows int `yaml:"maxRows,omitempty"`
}

// TaxConfig selects where bracket tables come from.
type TaxConfig struct {
	// TablesFile is a YAML or TOML file of bracket tables. Empty uses the
	// built-in tables.
	TablesFile   string `yaml:"tablesFile,omitempty"`
	DefaultTable string `yaml:"defaultTable,omitempty"`
}

// PayoffConfig holds defaults applied to payoff calculations that do not set
// them.
type PayoffConfig struct {
	MaxMonths        int  `yaml:"maxMonths,omitempty"`
	RolloverMinimums bool `yaml:"rolloverMinimums,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values may be overridden with FINANCE_ENGINE_*
// environment variables (FINANCE_ENGINE_LOGGING_LEVEL=debug).
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if err := configuration.Normalize(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

// Normalize fills defaults and parses derived values.
func (c *Configuration) Normalize() error {
	if c.Output.Format == "" {
		c.Output.Format = constants.OutputFormatPretty
	}
	if c.Tax.DefaultTable == "" {
		c.Tax.DefaultTable = constants.DefaultTaxTable
	}
	if c.Payoff.MaxMonths < 0 {
		return fmt.Errorf("payoff.maxMonths must not be negative, got %d", c.Payoff.MaxMonths)
	}
	return c.Server.normalize()
}

// ValidateConfiguration checks the calculations list and returns warnings for
// entries that will fail or be ambiguous. Calculations with problems are still
// attempted so every error is reported with its result.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	seen := make(map[string]bool, len(c.Calculations))
	for i, calc := range c.Calculations {
		label := calc.Label(i)
		if calc.Name != "" {
			if seen[calc.Name] {
				warnings = append(warnings, fmt.Sprintf("calculation name %q is used more than once", calc.Name))
			}
			seen[calc.Name] = true
		}
		if !IsCalculationType(calc.Type) {
			warnings = append(warnings, fmt.Sprintf("%s: unknown calculation type %q", label, calc.Type))
			continue
		}
		if _, err := calc.Params(); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", label, err))
		}
		if extra := calc.extraParams(); len(extra) > 0 {
			warnings = append(warnings, fmt.Sprintf("%s: ignoring parameters for %s", label, strings.Join(extra, ", ")))
		}
	}
	if len(c.Calculations) == 0 {
		warnings = append(warnings, "no calculations configured")
	}
	return warnings
}
