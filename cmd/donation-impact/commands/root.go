package commands

import (
	"fmt"
	"os"

	"github.com/iwvelando/donation-impact/internal/calculator"
	"github.com/iwvelando/donation-impact/internal/config"
	"github.com/iwvelando/donation-impact/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configLocation string
	logLevel       string
	buildVersion   string

	conf   *config.Configuration
	logger *zap.Logger
	calc   *calculator.Calculator
)

// Execute builds the command tree and runs it against os.Args.
func Execute(version string) error {
	root := newRootCmd(version)
	return root.Execute()
}

func newRootCmd(version string) *cobra.Command {
	buildVersion = version

	root := &cobra.Command{
		Use:          "donation-impact",
		Short:        "Estimate the bed nets and lives a malaria donation buys",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "init-config" {
				return nil
			}
			return setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(estimateCmd(), serveCmd(), initConfigCmd(), versionCmd())
	return root
}

// setup loads the configuration, builds the logger and the calculator.
func setup() error {
	loaded, err := config.LoadConfiguration(configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", configLocation, err)
		return err
	}

	l, err := initializeLogger(loaded.Logging, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return err
	}

	for _, warning := range loaded.Warnings() {
		l.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	c, err := calculator.New(loaded)
	if err != nil {
		l.Error("failed to build calculator",
			zap.String("op", "main"),
			zap.String("config", configLocation),
			zap.Error(err),
		)
		return err
	}

	conf = loaded
	logger = l
	calc = c
	return nil
}
