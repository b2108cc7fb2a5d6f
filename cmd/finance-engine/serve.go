package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/finance-engine/internal/calculator"
	"github.com/iwvelando/finance-engine/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve calculations over an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd, opts, address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address override (default from server.address)")
	return cmd
}

func serve(cmd *cobra.Command, opts *rootOptions, address string) error {
	conf, logger, err := loadConfiguration(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if address != "" {
		conf.Server.Address = address
	}

	calc, err := calculator.NewFromConfig(logger, conf)
	if err != nil {
		logger.Error("failed to prepare calculator",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return err
	}

	srv := server.NewServer(server.NewHandler(logger, calc, conf.Server, version), conf.Server)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP API",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
			zap.Int64("maxRequestSize", conf.Server.RequestSizeBytes()),
			zap.Duration("requestTimeout", conf.Server.Timeout()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		logger.Error("HTTP server failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return err
	case <-ctx.Done():
		logger.Info("shutting down HTTP API", zap.String("op", "main.serve"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed",
			zap.String("op", "main.serve"),
			zap.Error(err),
		)
		return err
	}
	return nil
}
