// Command finance-engine evaluates loan, savings, tax, ratio and debt payoff
// calculations from a configuration file or serves them over HTTP.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/finance-engine/internal/config"
	"github.com/iwvelando/finance-engine/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "finance-engine",
		Short:        "Loan, savings, tax, ratio and debt payoff calculations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newRunCmd(opts),
		newServeCmd(opts),
		newTablesCmd(),
		newVersionCmd(),
	)
	return root
}

// loadConfiguration reads the configuration and builds the logger it
// describes. Failures before a logger exists are reported as a JSON line in
// the same shape zap would write.
func loadConfiguration(cmd *cobra.Command, opts *rootOptions) (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": %q}\n", opts.configPath, err.Error())
		return nil, nil, err
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		return nil, nil, err
	}
	return conf, logger, nil
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "", "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	var zapConfig zap.Config
	switch loggingConfig.Format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "", "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", loggingConfig.Format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if path := loggingConfig.OutputFile; path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{path}
		zapConfig.ErrorOutputPaths = []string{path}
	}

	return zapConfig.Build()
}
