package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/donation-impact/internal/server"
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var serverConfigLocation, address, maxRequestSize string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web calculator and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverConf, err := server.LoadConfig(serverConfigLocation)
			if err != nil {
				logger.Error("failed to load server configuration",
					zap.String("op", "commands.serve"),
					zap.String("path", serverConfigLocation),
					zap.Error(err),
				)
				return err
			}
			if err := applyServeOverrides(serverConf, address, maxRequestSize); err != nil {
				return err
			}

			// Server logging settings take precedence over config.yaml.
			serverLogger, err := initializeLogger(mergeLogging(conf.Logging, serverConf.Logging), logLevel)
			if err != nil {
				return err
			}
			defer func() {
				_ = serverLogger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, serverLogger, serverConf)
		},
	}

	cmd.Flags().StringVar(&serverConfigLocation, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	cmd.Flags().StringVar(&maxRequestSize, "max-request-size", "", "request body limit override, e.g. 64K")
	return cmd
}

// applyServeOverrides applies the non-empty CLI flags on top of the server config.
func applyServeOverrides(serverConf *server.Config, address, maxRequestSize string) error {
	if address != "" {
		serverConf.Address = address
	}
	if maxRequestSize != "" {
		size, err := server.ParseSize(maxRequestSize)
		if err != nil {
			return fmt.Errorf("invalid --max-request-size: %w", err)
		}
		if size <= 0 {
			return fmt.Errorf("invalid --max-request-size: must be positive, got %s", maxRequestSize)
		}
		serverConf.SetRequestSizeBytes(size)
	}
	return nil
}

// runServer serves until ctx is cancelled, then drains in-flight requests.
func runServer(ctx context.Context, serverLogger *zap.Logger, serverConf *server.Config) error {
	handler := server.NewHandler(serverLogger, calc, server.Options{
		MaxRequestSize: serverConf.RequestSizeBytes(),
		Version:        buildVersion,
	})

	srv := &http.Server{
		Addr:              serverConf.Address,
		Handler:           handler,
		ReadTimeout:       serverConf.ReadTimeoutDuration(),
		ReadHeaderTimeout: serverConf.ReadTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		serverLogger.Info("starting server",
			zap.String("op", "commands.serve"),
			zap.String("address", serverConf.Address),
			zap.Int64("maxRequestSize", serverConf.RequestSizeBytes()),
			zap.String("version", buildVersion),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		serverLogger.Error("server stopped",
			zap.String("op", "commands.serve"),
			zap.Error(err),
		)
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConf.ShutdownTimeoutDuration())
	defer cancel()

	serverLogger.Info("shutting down server",
		zap.String("op", "commands.serve"),
		zap.Duration("timeout", serverConf.ShutdownTimeoutDuration()),
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		serverLogger.Error("graceful shutdown failed",
			zap.String("op", "commands.serve"),
			zap.Error(err),
		)
		return err
	}
	return nil
}
