package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// OrdersOptions holds flags for the orders command.
type OrdersOptions struct {
	*RootOptions
	Tech string
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List issued service orders, newest first",
		Long: `List the service-order ledger, newest first.

With --tech, only that technician's orders are shown (same ordering).

Example:
  mantemos orders
  mantemos orders --tech tech-0001 --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrders(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Tech, "tech", "", "filter by technician id")

	return cmd
}

func runOrders(opts *OrdersOptions, cmd *cobra.Command) error {
	a, _, cleanup, err := loadApp(cmdContext(cmd), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	orders := a.Ledger.ListAll()
	if opts.Tech != "" {
		orders = a.Ledger.ListByTechnician(opts.Tech)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	if opts.Format == "json" {
		return out.Success(orders)
	}
	for _, o := range orders {
		ts := time.UnixMilli(o.Timestamp).Local().Format("02/01/2006 15:04")
		fmt.Fprintf(cmd.OutOrStdout(), "#%s  %s  %s (RE: %s)  %s\n",
			o.ID, ts, o.TechName, o.TechRE, o.Status)
	}
	return nil
}
