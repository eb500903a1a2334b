package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/api"
	"github.com/Gianuzzi/DeepSpyce/pkg/config"
	"github.com/Gianuzzi/DeepSpyce/pkg/storage"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Serve header decoding, validation and the record archive over HTTP.
Every /api/v1 route requires the X-API-Key header; /metrics is open for scraping.

When the configured API key is "auto" a key is generated for this run and
logged. Run 'deepspyce init' to persist one.

Examples:
  deepspyce serve
  deepspyce serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd)
			cfg := e.config
			flags := cmd.Flags()

			port := cfg.Server.Port
			if flags.Changed("port") {
				port, _ = flags.GetInt("port")
			}
			bind := cfg.Server.Bind
			if flags.Changed("bind") {
				bind, _ = flags.GetString("bind")
			}
			apiKey := cfg.Security.APIKey
			if flags.Changed("api-key") {
				apiKey, _ = flags.GetString("api-key")
			}
			if apiKey == "" || apiKey == "auto" {
				generated, err := config.GenerateSecureKey(32)
				if err != nil {
					return err
				}
				apiKey = generated
				e.logger.Warn().Str("api_key", apiKey).Msg("no API key configured, generated one for this run")
			}

			opts, err := cfg.ReadOptions()
			if err != nil {
				return err
			}
			if container == nil {
				return fmt.Errorf("dependency container not initialized")
			}

			archive, err := container.GetArchiveOpener()(cfg.Archive.Dir)
			if err != nil {
				return err
			}
			defer archive.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return startServer(ctx, archive, api.ServerConfig{
				Port:    port,
				Bind:    bind,
				APIKey:  apiKey,
				Options: opts,
			}, e)
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "Port to listen on (default from config)")
	cmd.Flags().String("bind", "127.0.0.1", "Address to bind (default from config)")
	cmd.Flags().String("api-key", "", "API key for authentication (default from config)")
	return cmd
}

func startServer(ctx context.Context, archive *storage.Archive, config api.ServerConfig, e *env) error {
	e.logger.Info().Str("archive", e.config.Archive.Dir).Int("port", config.Port).Msg("starting server")
	return container.GetServerStarter()(ctx, archive, config, e.logger)
}
