package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
	"github.com/Gianuzzi/DeepSpyce/pkg/header"
	"github.com/Gianuzzi/DeepSpyce/pkg/iar"
	"github.com/Gianuzzi/DeepSpyce/pkg/logging"
	"github.com/Gianuzzi/DeepSpyce/pkg/raw"
)

// now is replaced in tests.
var now = time.Now

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <raw>",
		Short: "Convert a raw data dump into a filterbank file",
		Long: `Read a headerless raw dump and write it as a filterbank file.

With --iar the header is built from the IAR observation metadata and the
output name defaults to its generated rawdatafile entry. Without it the
header holds every standard key, null except nchans, and --out is required.

Examples:
  deepspyce convert --iar obs.iar dump.raw
  deepspyce convert --out obs.fil --overwrite dump.raw`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			iarPath, _ := flags.GetString("iar")
			outfile, _ := flags.GetString("out")
			overwrite, _ := flags.GetBool("overwrite")
			extra, _ := flags.GetBool("extra")

			opts, err := codecOptions(cmd)
			if err != nil {
				return err
			}
			e := envFrom(cmd)

			data, err := raw.Read(args[0], opts)
			if err != nil {
				return err
			}

			var h *header.Header
			if iarPath != "" {
				meta, err := iar.Read(iarPath)
				if err != nil {
					return err
				}
				h, err = iar.ToFilterbank(meta, now(), extra)
				if err != nil {
					return fmt.Errorf("%s: %w", iarPath, err)
				}
				opts.Types = header.Merge(iar.FilterbankTypes(), opts.Types)
			} else {
				if outfile == "" {
					return fmt.Errorf("--out is required without --iar: %w", filterbank.ErrNoOutputName)
				}
				h = filterbank.NewHeader(header.New(
					header.Entry{Key: filterbank.NameKey, Value: codec.Text(filepath.Base(outfile))},
					header.Entry{Key: "nchans", Value: codec.Int(int64(data.Columns))},
				))
			}

			path, diags, err := filterbank.Write(data, h, filterbank.WriteOptions{
				Options:   opts,
				Outfile:   outfile,
				Overwrite: overwrite,
			})
			logging.Diagnostics(e.logger, args[0], diags)
			if err != nil {
				return err
			}

			e.logger.Info().
				Str("from", args[0]).
				Str("to", path).
				Int("channels", data.Columns).
				Int("records", data.Records).
				Msg("converted")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	addCodecFlags(cmd)
	cmd.Flags().String("iar", "", "IAR observation metadata file")
	cmd.Flags().Bool("extra", false, "Add the extra IAR template keys to the header")
	cmd.Flags().StringP("out", "o", "", "Output file (default: rawdatafile from the IAR header)")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output file")
	return cmd
}
