package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/portotpc/mantemos/internal/app"
	"github.com/portotpc/mantemos/internal/store"
	"github.com/portotpc/mantemos/internal/syncer"
)

// setupLogging configures slog based on the verbose flag.
func setupLogging(opts *RootOptions) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// loadApp opens the database and assembles a started App from the config.
// The returned cleanup flushes sync traffic and closes the database.
func loadApp(ctx context.Context, opts *RootOptions) (*app.App, app.Config, func(), error) {
	setupLogging(opts)

	cfg, err := app.LoadConfig(opts.Config)
	if err != nil {
		return nil, app.Config{}, nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		return nil, app.Config{}, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	transport := syncer.NewSimulated(db, syncer.WithLatencies(cfg.PushLatency(), cfg.PullLatency()))
	a := app.New(db, transport, app.WithDerivation(cfg.Derivation()))

	if err := a.Start(ctx); err != nil {
		db.Close()
		return nil, app.Config{}, nil, WrapExitError(ExitCommandError, "failed to load state", err)
	}

	cleanup := func() {
		a.Close()
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}
	return a, cfg, cleanup, nil
}
