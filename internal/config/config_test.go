package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-engine/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example configuration",
			configPath: filepath.Join("..", "..", "config.yaml.example"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", "config.yaml.example"))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Logging.Format != "console" || conf.Output.MaxRows != 24 {
		t.Errorf("unexpected logging/output sections: %+v %+v", conf.Logging, conf.Output)
	}
	if conf.Server.RequestSizeBytes() != 256*1024 {
		t.Errorf("RequestSizeBytes() = %d, expected %d", conf.Server.RequestSizeBytes(), 256*1024)
	}
	if len(conf.Calculations) == 0 {
		t.Fatal("expected calculations in the example configuration")
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("example configuration has warnings: %v", warnings)
	}

	arm := conf.Calculations[1]
	if arm.Amortization == nil || arm.Amortization.ARM == nil {
		t.Fatalf("expected ARM parameters on %q", arm.Name)
	}
	if arm.Amortization.ARM.IndexRatePercent == nil || *arm.Amortization.ARM.IndexRatePercent != 4.0 {
		t.Errorf("IndexRatePercent not decoded: %+v", arm.Amortization.ARM)
	}

	var payoff *Calculation
	for i := range conf.Calculations {
		if conf.Calculations[i].Type == TypePayoffCompare {
			payoff = &conf.Calculations[i]
		}
	}
	if payoff == nil || payoff.Payoff == nil || len(payoff.Payoff.Debts) != 3 {
		t.Fatalf("expected three debts on the payoff comparison, got %+v", payoff)
	}
	if payoff.Payoff.Debts[0].ID != "visa" || payoff.Payoff.Debts[0].AnnualRatePercent != 24.99 {
		t.Errorf("first debt decoded as %+v", payoff.Payoff.Debts[0])
	}
}

func TestLoadConfigurationFromReaderDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(`
calculations:
  - type: ratio
    ratio:
      numerator: 1500
      denominator: 6000
`))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %q, expected default %q", conf.Output.Format, constants.OutputFormatPretty)
	}
	if conf.Tax.DefaultTable != constants.DefaultTaxTable {
		t.Errorf("Tax.DefaultTable = %q, expected %q", conf.Tax.DefaultTable, constants.DefaultTaxTable)
	}
	if conf.Server.Address != constants.DefaultServerAddress {
		t.Errorf("Server.Address = %q, expected %q", conf.Server.Address, constants.DefaultServerAddress)
	}
	if conf.Server.Timeout().Seconds() != constants.DefaultRequestTimeoutSeconds {
		t.Errorf("Server.Timeout() = %v", conf.Server.Timeout())
	}
	if conf.Calculations[0].Ratio == nil || conf.Calculations[0].Ratio.Denominator != 6000 {
		t.Errorf("ratio parameters not decoded: %+v", conf.Calculations[0])
	}
}

func TestLoadConfigurationInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Malformed YAML", "calculations: [\n"},
		{"Negative payoff horizon", "payoff:\n  maxMonths: -5\n"},
		{"Bad request size", "server:\n  maxRequestSize: lots\n"},
		{"Bad timeout", "server:\n  requestTimeout: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write temp config: %v", err)
			}
			if _, err := LoadConfiguration(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("FINANCE_ENGINE_LOGGING_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: info\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, expected the environment override", conf.Logging.Level)
	}
}

func TestValidateConfiguration(t *testing.T) {
	conf := Configuration{
		Calculations: []Calculation{
			{Name: "dup", Type: TypeRatio, Ratio: &RatioParams{Numerator: 1, Denominator: 2}},
			{Name: "dup", Type: TypeRoi, Roi: &RoiParams{InitialInvestment: 1, ReturnAmount: 2, TimeframeYears: 1}},
			{Name: "mystery", Type: "lottery"},
			{Name: "missing", Type: TypeGrowth},
			{Name: "extra", Type: TypeMargin, Margin: &MarginParams{Revenue: 10, Cost: 5}, Ratio: &RatioParams{}},
		},
	}

	warnings := conf.ValidateConfiguration()
	expected := []string{
		`calculation name "dup" is used more than once`,
		`mystery: unknown calculation type "lottery"`,
		"missing: missing growth parameters for growth calculation",
		"extra: ignoring parameters for ratio",
	}
	if len(warnings) != len(expected) {
		t.Fatalf("ValidateConfiguration() = %v, expected %d warnings", warnings, len(expected))
	}
	for i := range expected {
		if warnings[i] != expected[i] {
			t.Errorf("warning %d = %q, expected %q", i, warnings[i], expected[i])
		}
	}

	empty := Configuration{}
	if w := empty.ValidateConfiguration(); len(w) != 1 || w[0] != "no calculations configured" {
		t.Errorf("empty configuration warnings = %v", w)
	}
}
