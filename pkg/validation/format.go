package validation

import (
	"strings"

	"github.com/iwvelando/finance-engine/pkg/constants"
)

// OutputFormats lists the formats results can be printed in.
var OutputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ValidateOutputFormat checks if the output format is one of OutputFormats.
func ValidateOutputFormat(format string) error {
	for _, supported := range OutputFormats {
		if format == supported {
			return nil
		}
	}
	return Errorf("output.format", "expected one of %s, got %q", strings.Join(OutputFormats, ", "), format)
}
