package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/logging"
)

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Read a filterbank file and summarise its data",
		Long: `Read the header and data of a filterbank file. The data is reshaped into
--channels columns; trailing bytes that do not fill a whole record are dropped.

Examples:
  deepspyce read obs.fil
  deepspyce read --channels 64 --format '<f4' --records 10 obs.fil
  deepspyce read --data-only --skip 362 obs.fil`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			headerOnly, _ := flags.GetBool("header-only")
			dataOnly, _ := flags.GetBool("data-only")
			skip, _ := flags.GetInt64("skip")
			records, _ := flags.GetInt("records")

			sel, err := selector(headerOnly, dataOnly, flags.Changed("skip"), skip)
			if err != nil {
				return err
			}
			opts, err := codecOptions(cmd)
			if err != nil {
				return err
			}

			e := envFrom(cmd)
			e.logger.Debug().Str("file", args[0]).Str("select", sel.String()).Msg("reading")

			rec, diags, err := filterbank.Read(args[0], opts, sel)
			logging.Diagnostics(e.logger, args[0], diags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rec.Header != nil {
				if err := printHeader(out, rec.Header, false); err != nil {
					return err
				}
			}
			if rec.Data != nil {
				if rec.Header != nil {
					fmt.Fprintln(out, "---")
				}
				printArray(out, rec.Data, records)
			}
			return nil
		},
	}
	addCodecFlags(cmd)
	cmd.Flags().Bool("header-only", false, "Decode only the header")
	cmd.Flags().Bool("data-only", false, "Decode only the data")
	cmd.Flags().Int64("skip", 0, "Read only the data, starting at this byte offset")
	cmd.Flags().Int("records", 5, "Number of records to print (-1 for all)")
	return cmd
}

func selector(headerOnly, dataOnly, hasSkip bool, skip int64) (filterbank.Selector, error) {
	switch {
	case headerOnly && (dataOnly || hasSkip):
		return filterbank.Both, errors.New("--header-only cannot be combined with --data-only or --skip")
	case hasSkip && skip < 0:
		return filterbank.Both, fmt.Errorf("--skip must not be negative, got %d", skip)
	case hasSkip:
		return filterbank.SkipBytes(skip), nil
	case headerOnly:
		return filterbank.HeaderOnly, nil
	case dataOnly:
		return filterbank.DataOnly, nil
	default:
		return filterbank.Both, nil
	}
}
