package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/finance-engine/internal/calculator"
	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/iwvelando/finance-engine/pkg/output"
	"github.com/iwvelando/finance-engine/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate every configured calculation and print the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculations(cmd, opts, outputFormat)
		},
	}
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv")
	return cmd
}

func runCalculations(cmd *cobra.Command, opts *rootOptions, outputFormatFlag string) error {
	conf, logger, err := loadConfiguration(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main.run"))
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.run"),
		)
	}

	calc, err := calculator.NewFromConfig(logger, conf)
	if err != nil {
		logger.Error("failed to prepare calculator",
			zap.String("op", "main.run"),
			zap.Error(err),
		)
		return err
	}

	results := calc.RunAll(conf.Calculations)
	failed := 0
	for _, result := range results {
		if result.Failed() {
			failed++
		}
	}
	logger.Info("calculations complete",
		zap.String("op", "main.run"),
		zap.Int("calculations", len(results)),
		zap.Int("failed", failed),
	)

	return writeResults(cmd.OutOrStdout(), outputFormat, results, conf.Output.MaxRows)
}

func writeResults(w io.Writer, outputFormat string, results []calculator.Result, maxRows int) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return output.PrettyFormat(w, results, maxRows)
	case constants.OutputFormatCSV:
		return output.CsvFormat(w, results)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}
