// Package syncer mirrors local state to a simulated cloud copy.
//
// The mirror is eventually consistent under whole-snapshot replacement:
// every push replaces all of it, the last completed push wins. Pushes are
// coalesced through a single pending slot so at most one push is on the wire
// at a time; a newer snapshot supersedes a queued one that has not started.
// This removes the unordered-overlap race of firing a detached push per
// mutation while keeping the same last-write-wins outcome at the mirror.
//
// Once a push or pull starts it runs to completion; there is no cancellation
// or timeout.
package syncer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/store"
)

// Status is the externally observable sync state.
type Status struct {
	// Syncing is true while a push or pull is in flight or queued.
	Syncing bool `json:"syncing"`
	// LastError holds the most recent transport failure, empty when the
	// last transfer was confirmed. A failed push means the mirror may not
	// reflect the snapshot that was in flight.
	LastError string `json:"lastError,omitempty"`
}

// Engine drives push/pull traffic to the cloud mirror.
//
// Thread-safety: all methods are safe for concurrent use. Pushes run on a
// single internal worker goroutine; Pull runs on the caller's goroutine.
type Engine struct {
	transport Transport
	logger    *slog.Logger

	mu       sync.Mutex
	cond     *sync.Cond
	pending  *model.Snapshot // single coalescing slot
	draining bool            // worker goroutine alive
	inFlight int             // active transfers (push worker + pulls)
	lastErr  error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New creates an Engine over the given transport.
func New(transport Transport, opts ...Option) *Engine {
	e := &Engine{
		transport: transport,
		logger:    slog.Default(),
	}
	e.cond = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnqueuePush schedules a push of the given snapshot.
//
// If a push is already queued but not started, the new snapshot supersedes
// it. If a push is on the wire, the new snapshot waits its turn. The call
// never blocks on the transport.
func (e *Engine) EnqueuePush(snap model.Snapshot) {
	e.mu.Lock()
	superseded := e.pending != nil
	e.pending = &snap
	if !e.draining {
		e.draining = true
		go e.drain()
	}
	e.mu.Unlock()

	if superseded {
		e.logger.Debug("queued push superseded by newer snapshot")
	}
}

// drain pushes pending snapshots until the slot stays empty.
// Runs on its own goroutine; at most one drain is alive at a time.
func (e *Engine) drain() {
	for {
		e.mu.Lock()
		snap := e.pending
		e.pending = nil
		if snap == nil {
			e.draining = false
			e.cond.Broadcast()
			e.mu.Unlock()
			return
		}
		e.inFlight++
		e.mu.Unlock()

		// No cancellation: an initiated push always runs to completion.
		err := e.transport.Push(context.Background(), *snap)

		e.mu.Lock()
		e.inFlight--
		e.lastErr = err
		e.cond.Broadcast()
		e.mu.Unlock()

		if err != nil {
			e.logger.Error("push failed, snapshot unconfirmed", "error", err)
		} else {
			e.logger.Debug("push confirmed",
				"technicians", len(snap.Technicians), "orders", len(snap.Orders))
		}
	}
}

// Pull reads the mirror, blocking through the simulated latency.
// Absent parts come back nil; the caller leaves matching local state alone.
func (e *Engine) Pull(ctx context.Context) (store.Partial, error) {
	e.mu.Lock()
	e.inFlight++
	e.mu.Unlock()

	p, err := e.transport.Pull(ctx)

	e.mu.Lock()
	e.inFlight--
	e.lastErr = err
	e.cond.Broadcast()
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("pull failed", "error", err)
	}
	return p, err
}

// Status returns the current sync status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{Syncing: e.inFlight > 0 || e.pending != nil}
	if e.lastErr != nil {
		st.LastError = e.lastErr.Error()
	}
	return st
}

// Syncing reports whether any transfer is in flight or queued.
func (e *Engine) Syncing() bool {
	return e.Status().Syncing
}

// Flush blocks until no transfer is in flight or queued.
// Used by tests and by shutdown to let the mirror settle.
func (e *Engine) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.inFlight > 0 || e.pending != nil || e.draining {
		e.cond.Wait()
	}
}
