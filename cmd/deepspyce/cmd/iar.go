package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/iar"
)

func newIARCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iar <file>",
		Short: "Print the filterbank header built from IAR metadata",
		Long: `Parse an IAR observation metadata file (one "key,value" pair per line) and
print the filterbank header template DeepSpyce would write for it.
With --extra the pulsar period, highest frequency, observing time and
bandwidth keys are added. With --metadata the parsed metadata is printed
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			metadata, _ := cmd.Flags().GetBool("metadata")
			extra, _ := cmd.Flags().GetBool("extra")

			meta, err := iar.Read(args[0])
			if err != nil {
				return err
			}
			if metadata {
				return printHeader(cmd.OutOrStdout(), meta, asJSON)
			}

			h, err := iar.ToFilterbank(meta, now(), extra)
			if err != nil {
				return err
			}
			return printHeader(cmd.OutOrStdout(), h, asJSON)
		},
	}
	cmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	cmd.Flags().Bool("extra", false, "Add the pulsar period, frequency, observing time and bandwidth keys")
	cmd.Flags().Bool("metadata", false, "Print the parsed metadata rather than the header template")
	return cmd
}
