package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/portotpc/mantemos/internal/app"
	"github.com/portotpc/mantemos/internal/workflow"
)

// BackupExportOptions holds flags for the backup export subcommand.
type BackupExportOptions struct {
	*RootOptions
	Out string
}

// NewBackupCommand creates the backup command group.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and import JSON backups",
	}
	cmd.AddCommand(newBackupExportCommand(rootOpts))
	cmd.AddCommand(newBackupImportCommand(rootOpts))
	return cmd
}

func newBackupExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackupExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a full backup document",
		Long: `Write the full state (users, orders, settings) to a JSON file.

The default file name is date-stamped, e.g. backup_mantemos_29_08_2026.json.

Example:
  mantemos backup export
  mantemos backup export --out /tmp/state.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", "output path (default backup_mantemos_DD_MM_YYYY.json)")

	return cmd
}

func runBackupExport(opts *BackupExportOptions, cmd *cobra.Command) error {
	a, _, cleanup, err := loadApp(cmdContext(cmd), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := a.Export()
	if err != nil {
		return WrapExitError(ExitFailure, "export failed", err)
	}

	path := opts.Out
	if path == "" {
		path = app.ExportFileName(time.Now())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return WrapExitError(ExitFailure, "failed to write backup", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func newBackupImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore state from a backup document",
		Long: `Restore state from a JSON backup document.

Each top-level key present in the document (users, orders, settings)
replaces the matching store wholesale. A document that fails to parse
leaves everything untouched.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupImport(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runBackupImport(rootOpts *RootOptions, cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read backup", err)
	}

	a, _, cleanup, err := loadApp(cmdContext(cmd), rootOpts)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.Import(data); err != nil {
		out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
		if workflow.IsImportParse(err) {
			we := err.(*workflow.Error)
			_ = out.Error(string(we.Code), we.Message)
			return WrapExitError(ExitFailure, "import rejected", err)
		}
		return WrapExitError(ExitFailure, "import failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d technicians, %d orders\n",
		path, a.Identity.Len(), a.Ledger.Len())
	return nil
}
