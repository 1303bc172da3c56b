package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/portotpc/mantemos/internal/workflow"
)

// IssueOptions holds flags for the issue command.
type IssueOptions struct {
	*RootOptions
	Login    string
	Password string
	Fields   []string
}

// NewIssueCommand creates the issue command.
func NewIssueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IssueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a new service order",
		Long: `Issue a new service order as a technician.

Credentials are checked first, then the shift window. Field values are
given as label=value pairs; schema fields left out are captured empty.

Example:
  mantemos issue --login ana --password pw -f "Location=Dock A" -f "Sector=North"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Login, "login", "", "technician login (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "technician password (required)")
	cmd.Flags().StringArrayVarP(&opts.Fields, "field", "f", nil, "captured field as label=value (repeatable)")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runIssue(opts *IssueOptions, cmd *cobra.Command) error {
	inputs := make(map[string]string, len(opts.Fields))
	for _, f := range opts.Fields {
		label, value, found := strings.Cut(f, "=")
		if !found {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid --field %q: want label=value", f))
		}
		inputs[label] = value
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, _, cleanup, err := loadApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	tech, ok := a.Identity.FindByCredentials(opts.Login, opts.Password)
	if !ok {
		e := workflow.NewInvalidCredentialsError()
		_ = out.Error(string(e.Code), e.Message)
		return WrapExitError(ExitFailure, "login rejected", e)
	}

	order, err := a.Issuance.Submit(tech, inputs)
	if err != nil {
		if workflow.IsShiftClosed(err) {
			we := err.(*workflow.Error)
			_ = out.Error(string(we.Code), we.Message)
			return WrapExitError(ExitFailure, "issuance rejected", err)
		}
		return WrapExitError(ExitCommandError, "issuance failed", err)
	}

	if opts.Format == "json" {
		return out.Success(order)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Order #%s issued for %s (RE: %s)\n",
		order.ID, order.TechName, order.TechRE)
	return nil
}
