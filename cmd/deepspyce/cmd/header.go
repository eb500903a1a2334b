package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/logging"
)

func newHeaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header <file>",
		Short: "Decode and print a filterbank header",
		Long: `Decode the header of a filterbank file and print it in wire order.
Decoding diagnostics (missing sentinel, byte order retry) are logged as warnings.

Examples:
  deepspyce header obs.fil
  deepspyce header --swap --json obs.fil`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			opts, err := codecOptions(cmd)
			if err != nil {
				return err
			}

			h, diags, err := filterbank.ReadHeader(args[0], opts)
			logging.Diagnostics(envFrom(cmd).logger, args[0], diags)
			if err != nil {
				return err
			}
			return printHeader(cmd.OutOrStdout(), h, asJSON)
		},
	}
	addCodecFlags(cmd)
	cmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	return cmd
}
