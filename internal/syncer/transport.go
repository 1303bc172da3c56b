package syncer

import (
	"context"
	"time"

	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/store"
)

// Transport moves snapshots between the local process and the cloud mirror.
//
// Push replaces the mirror wholesale with the given snapshot; there is no
// merge or conflict detection, the last completed push wins entirely.
// Pull reads whatever the mirror holds; parts never pushed come back nil.
//
// Implementations return errors so callers can treat a failed push as
// unconfirmed, even though the simulated transport itself never fails.
type Transport interface {
	Push(ctx context.Context, snap model.Snapshot) error
	Pull(ctx context.Context) (store.Partial, error)
}

// Default simulated latencies.
const (
	DefaultPushLatency = 800 * time.Millisecond
	DefaultPullLatency = 1000 * time.Millisecond
)

// Simulated is a Transport backed by the cloud scope of the local database,
// with artificial latency standing in for the network. It mimics the
// behavior of a cloud-synchronized system without one.
type Simulated struct {
	store       *store.Store
	pushLatency time.Duration
	pullLatency time.Duration
}

// SimulatedOption configures a Simulated transport.
type SimulatedOption func(*Simulated)

// WithLatencies overrides the simulated push and pull latencies.
// Tests pass zero to run synchronously fast.
func WithLatencies(push, pull time.Duration) SimulatedOption {
	return func(t *Simulated) {
		t.pushLatency = push
		t.pullLatency = pull
	}
}

// NewSimulated creates a simulated transport over the given store.
func NewSimulated(s *store.Store, opts ...SimulatedOption) *Simulated {
	t := &Simulated{
		store:       s,
		pushLatency: DefaultPushLatency,
		pullLatency: DefaultPullLatency,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Push writes the snapshot to the cloud scope after the simulated latency.
func (t *Simulated) Push(ctx context.Context, snap model.Snapshot) error {
	sleep(ctx, t.pushLatency)
	return t.store.SaveSnapshot(ctx, store.ScopeCloud, snap)
}

// Pull reads the cloud scope after the simulated latency.
func (t *Simulated) Pull(ctx context.Context) (store.Partial, error) {
	sleep(ctx, t.pullLatency)
	return t.store.LoadPartial(ctx, store.ScopeCloud)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
