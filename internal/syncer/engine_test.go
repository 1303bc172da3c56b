package syncer

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portotpc/mantemos/internal/model"
	"github.com/portotpc/mantemos/internal/store"
)

// gatedTransport blocks each Push until released, recording what it saw.
type gatedTransport struct {
	mu      sync.Mutex
	gate    chan struct{}
	started atomic.Int32 // pushes that have entered the transport
	pushed  []model.Snapshot
	err     error
}

func newGatedTransport() *gatedTransport {
	return &gatedTransport{gate: make(chan struct{})}
}

func (t *gatedTransport) Push(_ context.Context, snap model.Snapshot) error {
	t.started.Add(1)
	<-t.gate
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pushed = append(t.pushed, snap)
	return t.err
}

func (t *gatedTransport) Pull(context.Context) (store.Partial, error) {
	return store.Partial{}, t.err
}

func (t *gatedTransport) releaseAll() { close(t.gate) }

func (t *gatedTransport) snapshots() []model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Snapshot, len(t.pushed))
	copy(out, t.pushed)
	return out
}

func snapWithOrders(ids ...string) model.Snapshot {
	orders := make([]model.ServiceOrder, len(ids))
	for i, id := range ids {
		orders[i] = model.ServiceOrder{ID: id}
	}
	settings := model.DefaultSettings()
	return model.Snapshot{Orders: orders, Settings: &settings}
}

func TestEnqueuePush_CoalescesWhileInFlight(t *testing.T) {
	tr := newGatedTransport()
	e := New(tr)

	e.EnqueuePush(snapWithOrders("0001"))
	// Wait for the worker to pick up the first snapshot before queueing more.
	require.Eventually(t, func() bool { return tr.started.Load() == 1 },
		time.Second, time.Millisecond)

	// These two arrive while the first push is on the wire; the second
	// supersedes the first in the pending slot.
	e.EnqueuePush(snapWithOrders("0001", "0002"))
	e.EnqueuePush(snapWithOrders("0001", "0002", "0003"))

	tr.releaseAll()
	e.Flush()

	got := tr.snapshots()
	require.Len(t, got, 2, "intermediate snapshot should be superseded")
	assert.Len(t, got[0].Orders, 1)
	assert.Len(t, got[1].Orders, 3)
}

func TestStatus_SyncingWhilePushInFlight(t *testing.T) {
	tr := newGatedTransport()
	e := New(tr)

	assert.False(t, e.Syncing())

	e.EnqueuePush(snapWithOrders("0001"))
	assert.True(t, e.Syncing())

	tr.releaseAll()
	e.Flush()
	assert.False(t, e.Syncing())
}

func TestStatus_FailedPushIsUnconfirmed(t *testing.T) {
	tr := newGatedTransport()
	tr.err = errors.New("mirror unreachable")
	e := New(tr)

	e.EnqueuePush(snapWithOrders("0001"))
	tr.releaseAll()
	e.Flush()

	st := e.Status()
	assert.False(t, st.Syncing)
	assert.Contains(t, st.LastError, "mirror unreachable")
}

func TestSimulated_PushThenPullRoundTrip(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	defer db.Close()

	e := New(NewSimulated(db, WithLatencies(0, 0)))

	e.EnqueuePush(snapWithOrders("0002", "0001"))
	e.Flush()

	p, err := e.Pull(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p.Orders)
	require.Len(t, *p.Orders, 2)
	assert.Equal(t, "0002", (*p.Orders)[0].ID)
}

func TestSimulated_PullFromEmptyMirror(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	defer db.Close()

	e := New(NewSimulated(db, WithLatencies(0, 0)))

	p, err := e.Pull(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p.Technicians)
	assert.Nil(t, p.Orders)
	assert.Nil(t, p.Settings)
}

func TestSimulated_LastPushWins(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	defer db.Close()

	e := New(NewSimulated(db, WithLatencies(0, 0)))

	e.EnqueuePush(snapWithOrders("0001", "0002", "0003"))
	e.Flush()
	e.EnqueuePush(snapWithOrders("0001"))
	e.Flush()

	p, err := e.Pull(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p.Orders)
	assert.Len(t, *p.Orders, 1, "mirror is replaced wholesale, not merged")
}
