package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/config"
	"github.com/Gianuzzi/DeepSpyce/pkg/di"
	"github.com/Gianuzzi/DeepSpyce/pkg/logging"
)

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

type envKey struct{}

// env is what PersistentPreRunE hands to every command.
type env struct {
	config     *config.Config
	configPath string
	logger     zerolog.Logger
}

func envFrom(cmd *cobra.Command) *env {
	if e, ok := cmd.Context().Value(envKey{}).(*env); ok {
		return e
	}
	cfg := config.DefaultConfig()
	return &env{config: cfg, logger: logging.New(cfg.Logging, cmd.ErrOrStderr())}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deepspyce",
		Short: "DeepSpyce - filterbank file toolkit",
		Long: `DeepSpyce reads and writes filterbank files: a sentinel delimited header
of typed key/value pairs followed by the raw bytes of a channels by samples
array. It also converts headerless raw dumps and IAR observation metadata,
keeps an indexed archive of records and serves both over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")

			explicit := configPath != ""
			if !explicit {
				configPath = config.GetDefaultConfigPath()
			}

			cfg := config.DefaultConfig()
			if config.ConfigExists(configPath) {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			} else if explicit && cmd.Name() != "init" {
				return fmt.Errorf("config file does not exist: %s", configPath)
			}

			if logLevel != "" {
				cfg.Logging.Level = strings.ToLower(logLevel)
			}

			logger := logging.New(cfg.Logging, cmd.ErrOrStderr())
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, envKey{}, &env{
				config:     cfg,
				configPath: configPath,
				logger:     logger,
			}))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default ~/.config/deepspyce/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCmd(),
		newHeaderCmd(),
		newReadCmd(),
		newValidateCmd(),
		newConvertCmd(),
		newIARCmd(),
		newArchiveCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if container == nil {
		container = di.NewContainer()
	}
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported marks failures whose details were already printed.
var errReported = errors.New("failure already reported")
