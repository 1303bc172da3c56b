package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/portotpc/mantemos/internal/api"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the MantemOS HTTP server.

Loads local state, pulls the cloud mirror once, and serves the technician
and admin APIs until interrupted.

Example:
  mantemos serve --config mantemos.yaml
  mantemos serve --listen :9000 --verbose`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Listen, "listen", "", "listen address (overrides config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	a, cfg, cleanup, err := loadApp(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	listen := cfg.Listen
	if opts.Listen != "" {
		listen = opts.Listen
	}

	srv := &http.Server{
		Addr:    listen,
		Handler: api.NewServer(a, cfg.AdminPasswords).Router(),
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
		case <-ctx.Done():
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "listen", listen, "db", cfg.Database)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s. Press Ctrl-C to stop.\n", listen)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
