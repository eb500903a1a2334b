package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"

	"github.com/Gianuzzi/DeepSpyce/pkg/fileio"
	"github.com/Gianuzzi/DeepSpyce/pkg/logging"
	"github.com/Gianuzzi/DeepSpyce/pkg/storage"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage the record archive",
		Long: `Store filterbank files in the archive, indexed by their text and integer
header entries, and fetch them back by id.`,
	}
	cmd.PersistentFlags().String("dir", "", "Archive directory (default from config)")

	cmd.AddCommand(
		newArchivePutCmd(),
		newArchiveGetCmd(),
		newArchiveListCmd(),
		newArchiveRmCmd(),
	)
	return cmd
}

// withArchive opens the archive for the duration of fn.
func withArchive(cmd *cobra.Command, fn func(*storage.Archive) error) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = envFrom(cmd).config.Archive.Dir
	}
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}
	archive, err := container.GetArchiveOpener()(dir)
	if err != nil {
		return err
	}
	defer archive.Close()
	return fn(archive)
}

func newArchivePutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <file>...",
		Short: "Store filterbank files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := codecOptions(cmd)
			if err != nil {
				return err
			}
			e := envFrom(cmd)

			return withArchive(cmd, func(archive *storage.Archive) error {
				for _, path := range args {
					b, err := fileio.ReadFile(path)
					if err != nil {
						return err
					}
					id, diags, err := archive.PutBytes(b, opts)
					logging.Diagnostics(e.logger, path, diags)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, path)
				}
				return nil
			})
		},
	}
	addCodecFlags(cmd)
	return cmd
}

func newArchiveGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a record's header, or write the record to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			overwrite, _ := cmd.Flags().GetBool("overwrite")
			asJSON, _ := cmd.Flags().GetBool("json")

			id, err := ksuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}
			opts, err := codecOptions(cmd)
			if err != nil {
				return err
			}
			e := envFrom(cmd)

			return withArchive(cmd, func(archive *storage.Archive) error {
				if out != "" {
					b, err := archive.Bytes(id)
					if err != nil {
						return err
					}
					if err := fileio.WriteFile(out, b, overwrite); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), out)
					return nil
				}

				h, diags, err := archive.Header(id, opts)
				logging.Diagnostics(e.logger, id.String(), diags)
				if err != nil {
					return err
				}
				return printHeader(cmd.OutOrStdout(), h, asJSON)
			})
		},
	}
	addCodecFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Write the stored file here instead of printing its header")
	cmd.Flags().Bool("overwrite", false, "Replace an existing output file")
	cmd.Flags().Bool("json", false, "Print JSON instead of YAML")
	return cmd
}

func newArchiveListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List record ids, optionally filtered by a header entry",
		Long: `List record ids, oldest first. With --key and --value only records whose
header has that text or integer entry are listed.

Examples:
  deepspyce archive list
  deepspyce archive list --key source_name --value J0437-4715`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("key")
			value, _ := cmd.Flags().GetString("value")
			if key == "" && cmd.Flags().Changed("value") {
				return fmt.Errorf("--value requires --key")
			}

			return withArchive(cmd, func(archive *storage.Archive) error {
				var (
					ids []ksuid.KSUID
					err error
				)
				if key != "" {
					ids, err = archive.Find(key, value)
				} else {
					ids, err = archive.List()
				}
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", id, id.Time().UTC().Format("2006-01-02T15:04:05Z"))
				}
				return nil
			})
		},
	}
	cmd.Flags().String("key", "", "Header key to match")
	cmd.Flags().String("value", "", "Header value to match")
	return cmd
}

func newArchiveRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Delete records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withArchive(cmd, func(archive *storage.Archive) error {
				for _, arg := range args {
					id, err := ksuid.Parse(arg)
					if err != nil {
						return fmt.Errorf("invalid record id %q: %w", arg, err)
					}
					if err := archive.Delete(id); err != nil {
						return fmt.Errorf("%s: %w", id, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
				}
				return nil
			})
		},
	}
}
