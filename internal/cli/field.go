package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/portotpc/mantemos/internal/model"
)

// FieldOptions holds flags for the field add subcommand.
type FieldOptions struct {
	*RootOptions
	Label    string
	Kind     string
	Required bool
}

// NewFieldCommand creates the field command group.
func NewFieldCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage the capture-form schema",
	}
	cmd.AddCommand(newFieldAddCommand(rootOpts))
	cmd.AddCommand(newFieldRemoveCommand(rootOpts))
	cmd.AddCommand(newFieldListCommand(rootOpts))
	return cmd
}

func newFieldAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FieldOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a field to the schema",
		Long: `Append a field definition to the end of the capture-form schema.

New fields only appear on orders issued afterwards; history is never
migrated.

Example:
  mantemos field add --label "Serial Number" --kind text --required`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFieldAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Label, "label", "", "field label (required)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "text", "field kind (text|textarea|number)")
	cmd.Flags().BoolVar(&opts.Required, "required", false, "mark the field required on the form")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func runFieldAdd(opts *FieldOptions, cmd *cobra.Command) error {
	kind := model.FieldKind(opts.Kind)
	switch kind {
	case model.FieldText, model.FieldTextarea, model.FieldNumber:
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --kind %q: must be text, textarea or number", opts.Kind))
	}

	a, _, cleanup, err := loadApp(cmdContext(cmd), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	f := a.Settings.AddField(model.FieldDefinition{
		Label:    opts.Label,
		Kind:     kind,
		Required: opts.Required,
	})

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(f)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added field %q (id %s)\n", f.Label, f.ID)
	return nil
}

func newFieldRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a field from the schema",
		Long: `Remove a field definition by id.

Removing an unknown id is a no-op. Historical orders keep the removed
field's captured values.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, cleanup, err := loadApp(cmdContext(cmd), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			a.Settings.RemoveField(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
	return cmd
}

func newFieldListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List the capture-form schema in order",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, cleanup, err := loadApp(cmdContext(cmd), rootOpts)
			if err != nil {
				return err
			}
			defer cleanup()

			fields := a.Settings.Fields()
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout(), Verbose: rootOpts.Verbose}
			if rootOpts.Format == "json" {
				return out.Success(fields)
			}
			for i, f := range fields {
				req := ""
				if f.Required {
					req = " (required)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s [%s]%s  id=%s\n", i+1, f.Label, f.Kind, req, f.ID)
			}
			return nil
		},
	}
	return cmd
}
