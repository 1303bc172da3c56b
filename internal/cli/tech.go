package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portotpc/mantemos/internal/model"
)

// TechOptions holds flags for the tech add subcommand.
type TechOptions struct {
	*RootOptions
	Name     string
	RE       string
	Login    string
	Password string
	Shift    string // "HH:mm-HH:mm"
}

// NewTechCommand creates the tech command group.
func NewTechCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tech",
		Short: "Manage the technician roster",
	}
	cmd.AddCommand(newTechAddCommand(rootOpts))
	cmd.AddCommand(newTechRemoveCommand(rootOpts))
	cmd.AddCommand(newTechListCommand(rootOpts))
	return cmd
}

func newTechAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TechOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a technician",
		Long: `Add a technician to the roster.

The shift window may span midnight (e.g. 22:00-06:00).

Example:
  mantemos tech add --name "Ana Souza" --re RE-100 --login ana --password pw --shift 08:00-16:00`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTechAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "full name (required)")
	cmd.Flags().StringVar(&opts.RE, "re", "", "registration number (required)")
	cmd.Flags().StringVar(&opts.Login, "login", "", "login (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (required)")
	cmd.Flags().StringVar(&opts.Shift, "shift", "", "shift window as HH:mm-HH:mm (required)")
	for _, f := range []string{"name", "re", "login", "password", "shift"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func runTechAdd(opts *TechOptions, cmd *cobra.Command) error {
	start, end, found := strings.Cut(opts.Shift, "-")
	if !found {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --shift %q: want HH:mm-HH:mm", opts.Shift))
	}

	ctx := cmdContext(cmd)
	a, _, cleanup, err := loadApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	tech := a.Identity.Add(model.Technician{
		Name:               opts.Name,
		RegistrationNumber: opts.RE,
		Login:              opts.Login,
		Password:           opts.Password,
		ShiftStart:         start,
		ShiftEnd:           end,
	})

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(tech)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s (id %s, shift %s-%s)\n", tech.Name, tech.ID, start, end)
	return nil
}

func newTechRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a technician",
		Long: `Remove a technician by id.

Removing an unknown id is a no-op. Orders already issued by the technician
keep their recorded name and registration number.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, cleanup, err := loadApp(cmdContext(cmd), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			a.Identity.Remove(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func newTechListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the technician roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, cleanup, err := loadApp(cmdContext(cmd), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			techs := a.Identity.List()
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(techs)
			}
			for _, t := range techs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s (RE: %s)  shift %s-%s  login %s\n",
					t.ID, t.Name, t.RegistrationNumber, t.ShiftStart, t.ShiftEnd, t.Login)
			}
			return nil
		},
	}
	return cmd
}

// cmdContext returns the command's context, defaulting to Background.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
