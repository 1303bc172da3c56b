package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSyncCommand creates the sync command group.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and drive the cloud mirror",
	}
	cmd.AddCommand(newSyncStatusCommand(rootOpts))
	cmd.AddCommand(newSyncPullCommand(rootOpts))
	return cmd
}

func newSyncStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show the current sync status",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, cleanup, err := loadApp(cmdContext(cmd), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			st := a.Syncer.Status()
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(st)
			}
			if st.Syncing {
				fmt.Fprintln(cmd.OutOrStdout(), "Syncing")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Idle")
			}
			if st.LastError != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Last error: %s\n", st.LastError)
			}
			return nil
		},
	}
	return cmd
}

func newSyncPullCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Pull the cloud mirror into local state",
		Long: `Pull the cloud mirror and overwrite local state with it.

Parts absent from the mirror leave the matching local state alone.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			a, _, cleanup, err := loadApp(ctx, rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := a.Syncer.Pull(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "pull failed", err)
			}
			a.Apply(p)

			fmt.Fprintf(cmd.OutOrStdout(), "Pulled mirror: %d technicians, %d orders\n",
				a.Identity.Len(), a.Ledger.Len())
			return nil
		},
	}
	return cmd
}
