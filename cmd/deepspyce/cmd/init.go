package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration with a generated API key",
		Long: `Create the DeepSpyce configuration file with default codec settings and a
freshly generated API key for the HTTP service.

Examples:
  deepspyce init
  deepspyce init --config ./deepspyce.yaml --archive-dir ./archive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archiveDir, _ := cmd.Flags().GetString("archive-dir")
			force, _ := cmd.Flags().GetBool("force")
			e := envFrom(cmd)

			if config.ConfigExists(e.configPath) && !force {
				return fmt.Errorf("config already exists at %s (use --force to replace it)", e.configPath)
			}

			cfg, err := config.BootstrapConfig(e.configPath, archiveDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration written to %s\n", e.configPath)
			fmt.Fprintf(out, "Archive directory: %s\n", cfg.Archive.Dir)
			fmt.Fprintf(out, "API key: %s\n", cfg.Security.APIKey)
			return nil
		},
	}
	cmd.Flags().String("archive-dir", "", "Archive directory (default ./archive)")
	cmd.Flags().Bool("force", false, "Replace an existing configuration")
	return cmd
}
