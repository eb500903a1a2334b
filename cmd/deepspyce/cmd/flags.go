package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/array"
	"github.com/Gianuzzi/DeepSpyce/pkg/codec"
	"github.com/Gianuzzi/DeepSpyce/pkg/filterbank"
)

// addCodecFlags registers the data layout flags. Unset flags keep the
// configured values.
func addCodecFlags(cmd *cobra.Command) {
	cmd.Flags().Int("channels", 0, "Number of channels (columns)")
	cmd.Flags().String("format", "", "Element format, e.g. >i8, <f4, u1")
	cmd.Flags().String("order", "", "Major order: F (column) or C (row)")
	cmd.Flags().Bool("swap", false, "Data and header use the non-native byte order")
}

// codecOptions starts from the config and applies any codec flags set.
func codecOptions(cmd *cobra.Command) (filterbank.Options, error) {
	opts, err := envFrom(cmd).config.ReadOptions()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("channels") {
		n, _ := flags.GetInt("channels")
		if n < 1 {
			return opts, fmt.Errorf("--channels must be positive, got %d", n)
		}
		opts.Columns = n
	}
	if flags.Changed("format") {
		token, _ := flags.GetString("format")
		f, err := codec.ParseFormat(token)
		if err != nil {
			return opts, fmt.Errorf("--format: %w", err)
		}
		if !f.IsNumeric() {
			return opts, fmt.Errorf("--format: %q is not numeric", token)
		}
		opts.Format = f
	}
	if flags.Changed("order") {
		token, _ := flags.GetString("order")
		order, err := array.ParseMajorOrder(token)
		if err != nil {
			return opts, fmt.Errorf("--order: %w", err)
		}
		opts.Order = order
	}
	if flags.Changed("swap") {
		swap, _ := flags.GetBool("swap")
		opts.Directive = codec.SwapDirective(swap)
	}
	return opts, nil
}
