package cmd

import (
	"os"

	"blog-server/config"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var verbose bool

var logger *zap.Logger

// RootCmd runs the server when called without a subcommand.
var RootCmd = &cobra.Command{
	Use:           "blog-server [command] [flags]",
	Short:         "A small multi-user blog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: serve,
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}

func initLogger() error {
	zapConfig := zap.NewProductionConfig()
	if os.Getenv("GOENV") == "development" {
		zapConfig = zap.NewDevelopmentConfig()
	}
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	var err error
	logger, err = zapConfig.Build()
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading configuration")
	}
	return cfg, nil
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "🚨 "+err.Error())
		os.Exit(1)
	}
}
