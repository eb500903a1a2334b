package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/logging"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a filterbank header against the known keys and types",
		Long: `Decode the header of a filterbank file and check every entry against the
filterbank type map (plus any codec.types overrides from the config).
Exits non-zero when an unexpected key or a wrongly typed value is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := codecOptions(cmd)
			if err != nil {
				return err
			}

			h, diags, err := filterbank.ReadHeader(args[0], opts)
			e := envFrom(cmd)
			logging.Diagnostics(e.logger, args[0], diags)
			if err != nil {
				return err
			}

			ok, problems := filterbank.Validate(h, opts.Types)
			out := cmd.OutOrStdout()
			for _, d := range problems {
				fmt.Fprintln(out, d.String())
			}
			if !ok {
				fmt.Fprintf(out, "%s: invalid header (%d problems)\n", args[0], len(problems))
				return errReported
			}
			fmt.Fprintf(out, "%s: ok (%d entries)\n", args[0], h.Len())
			return nil
		},
	}
	addCodecFlags(cmd)
	return cmd
}
