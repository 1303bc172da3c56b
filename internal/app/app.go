// Package app wires the stores, the persistence layer and the sync engine
// into one application instance.
//
// Write flow: a mutation on any store fires its change observers; the app's
// single observer persists the full local snapshot and hands it to the sync
// engine for a coalesced push. Read flow: at startup the local snapshot is
// loaded, then one pull may overwrite the stores from the cloud mirror.
//
// The three stores are mutated independently; there is no cross-store
// transaction. Consistency between them is best-effort, as it always was.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/portotpc/mantemos/internal/identity"
	"github.com/portotpc/mantemos/internal/ledger"
	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/settings"
	"github.com/portotpc/mantemos/internal/store"
	"github.com/portotpc/mantemos/internal/syncer"
	"github.com/portotpc/mantemos/internal/workflow"
)

// App is one running application instance.
type App struct {
	Identity *identity.Store
	Ledger   *ledger.Ledger
	Settings *settings.Store
	Syncer   *syncer.Engine
	Issuance *workflow.Issuance

	db     *store.Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an App.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	now        func() time.Time
	derivation ledger.Derivation
	gen        model.IDGenerator
}

// WithLogger overrides the app's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock overrides the wall clock (for deterministic tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDerivation selects the order-id derivation mode.
func WithDerivation(d ledger.Derivation) Option {
	return func(o *options) { o.derivation = d }
}

// WithIDGenerator overrides the opaque-id generator (for deterministic tests).
func WithIDGenerator(gen model.IDGenerator) Option {
	return func(o *options) { o.gen = gen }
}

// New assembles an App over an open database and a transport.
// Call Start to load state and begin syncing.
func New(db *store.Store, transport syncer.Transport, opts ...Option) *App {
	o := &options{
		logger:     slog.Default(),
		now:        time.Now,
		derivation: ledger.DeriveFromHead,
		gen:        model.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{
		Identity: identity.NewStore(identity.WithIDGenerator(o.gen)),
		Ledger:   ledger.New(ledger.WithDerivation(o.derivation), ledger.WithClock(o.now)),
		Settings: settings.NewStore(settings.WithIDGenerator(o.gen)),
		Syncer:   syncer.New(transport, syncer.WithLogger(o.logger)),
		db:       db,
		logger:   o.logger,
		now:      o.now,
	}
	a.Issuance = workflow.NewIssuance(a.Ledger, a.Settings,
		workflow.WithClock(o.now), workflow.WithLogger(o.logger))
	return a
}

// Start loads the local snapshot, subscribes the persistence/sync observer
// to every store, and issues the one startup pull. The pull happens before
// any local mutation; whatever the mirror holds overwrites the local stores,
// and keys never pushed leave local state untouched.
func (a *App) Start(ctx context.Context) error {
	local, err := a.db.LoadPartial(ctx, store.ScopeLocal)
	if err != nil {
		return err
	}
	a.Apply(local)
	a.logger.Info("local state loaded",
		"technicians", a.Identity.Len(), "orders", a.Ledger.Len())

	onChange := func() { a.onChange(ctx) }
	a.Identity.Subscribe(onChange)
	a.Ledger.Subscribe(onChange)
	a.Settings.Subscribe(onChange)

	remote, err := a.Syncer.Pull(ctx)
	if err != nil {
		// The mirror being unreachable is not fatal; local state stands.
		a.logger.Error("startup pull failed, continuing with local state", "error", err)
		return nil
	}
	a.Apply(remote)
	return nil
}

// Apply overwrites local stores from a partial snapshot (startup load,
// startup pull, or an operator-requested pull). Nil parts are skipped.
// Applying through the stores fires the change observers, so an applied
// pull re-persists and re-pushes: harmless whole-snapshot echoes.
func (a *App) Apply(p store.Partial) {
	if p.Technicians != nil {
		a.Identity.ReplaceAll(*p.Technicians)
	}
	if p.Orders != nil {
		a.Ledger.ReplaceAll(*p.Orders)
	}
	if p.Settings != nil {
		a.Settings.Replace(*p.Settings)
	}
}

// onChange persists the current snapshot locally and schedules a push.
//
// The push is suppressed while both the roster and the ledger are empty:
// an empty just-started process must not wipe a populated mirror before the
// startup pull resolves.
func (a *App) onChange(ctx context.Context) {
	snap := a.Snapshot()

	if err := a.db.SaveSnapshot(ctx, store.ScopeLocal, snap); err != nil {
		a.logger.Error("local persist failed", "error", err)
	}

	if len(snap.Technicians) == 0 && len(snap.Orders) == 0 {
		a.logger.Debug("push suppressed, nothing local to protect the mirror from")
		return
	}
	a.Syncer.EnqueuePush(snap)
}

// Snapshot materializes the full current local state.
func (a *App) Snapshot() model.Snapshot {
	s := a.Settings.Get()
	return model.Snapshot{
		Technicians: a.Identity.List(),
		Orders:      a.Ledger.ListAll(),
		Settings:    &s,
	}
}

// Close flushes in-flight sync traffic. The database is owned by the caller.
func (a *App) Close() {
	a.Syncer.Flush()
}
