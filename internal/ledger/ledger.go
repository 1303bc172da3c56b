// Package ledger holds the issued service orders.
//
// The ledger is kept newest-first: Issue prepends, it never sorts. That
// ordering is an invariant of the stored list, and the default id derivation
// depends on it (see Issue).
package ledger

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/portotpc/mantemos/internal/model"
)

// Derivation selects how the next order id is computed.
type Derivation int

const (
	// DeriveFromHead parses the id of the most recently inserted order and
	// adds one. Faithful to the historical behavior, but wrong if the list
	// is not strictly newest-first (e.g. after an unsorted bulk import):
	// a stale head yields a stale next id and eventually a duplicate.
	DeriveFromHead Derivation = iota

	// DeriveFromMax scans the whole ledger for the numerically largest id
	// and adds one. Immune to ordering damage from bulk imports.
	DeriveFromMax
)

// Ledger is the authoritative ordered collection of issued orders.
//
// Thread-safety: all methods are safe for concurrent use. Observers are
// invoked after the mutation completes, outside the lock.
type Ledger struct {
	mu         sync.RWMutex
	orders     []model.ServiceOrder
	derivation Derivation
	now        func() time.Time
	observers  []func()
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithDerivation selects the id derivation mode. Default: DeriveFromHead.
func WithDerivation(d Derivation) Option {
	return func(l *Ledger) { l.derivation = d }
}

// WithClock overrides the timestamp source (for deterministic tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers an observer invoked after every mutation.
func (l *Ledger) Subscribe(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

func (l *Ledger) notify() {
	l.mu.RLock()
	obs := make([]func(), len(l.observers))
	copy(obs, l.observers)
	l.mu.RUnlock()
	for _, fn := range obs {
		fn()
	}
}

// Issue creates a new order for the technician with the captured field data
// and prepends it to the ledger.
//
// The id is the successor of the current seed (see Derivation), rendered as
// a zero-padded decimal of width at least 4. Values past 9999 simply widen.
//
// Technician name and registration number are copied into the order so that
// later roster changes never alter issued records.
func (l *Ledger) Issue(tech model.Technician, data map[string]string) model.ServiceOrder {
	l.mu.Lock()
	order := model.ServiceOrder{
		ID:        fmt.Sprintf("%04d", l.seedLocked()+1),
		TechID:    tech.ID,
		TechName:  tech.Name,
		TechRE:    tech.RegistrationNumber,
		Timestamp: l.now().UnixMilli(),
		Data:      data,
		Status:    model.StatusCompleted,
	}
	l.orders = append([]model.ServiceOrder{order}, l.orders...)
	l.mu.Unlock()
	l.notify()
	return order
}

// seedLocked returns the integer the next id is derived from.
// Caller must hold l.mu.
func (l *Ledger) seedLocked() int {
	if len(l.orders) == 0 {
		return 0
	}
	if l.derivation == DeriveFromMax {
		max := 0
		for _, o := range l.orders {
			if n, err := strconv.Atoi(o.ID); err == nil && n > max {
				max = n
			}
		}
		return max
	}
	n, err := strconv.Atoi(l.orders[0].ID)
	if err != nil {
		return 0
	}
	return n
}

// ListAll returns every order in ledger order (newest first). Copy.
func (l *Ledger) ListAll() []model.ServiceOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.ServiceOrder, len(l.orders))
	copy(out, l.orders)
	return out
}

// ListByTechnician returns the technician's orders, preserving ledger order.
func (l *Ledger) ListByTechnician(techID string) []model.ServiceOrder {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := []model.ServiceOrder{}
	for _, o := range l.orders {
		if o.TechID == techID {
			out = append(out, o)
		}
	}
	return out
}

// Get returns the order with the given id.
func (l *Ledger) Get(id string) (model.ServiceOrder, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.ServiceOrder{}, false
}

// Len returns the number of issued orders.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

// ReplaceAll swaps the whole ledger, used by backup import and cloud pull.
// No uniqueness or ordering validation happens here; an import that is not
// newest-first degrades DeriveFromHead (see Derivation docs).
func (l *Ledger) ReplaceAll(orders []model.ServiceOrder) {
	l.mu.Lock()
	l.orders = make([]model.ServiceOrder, len(orders))
	copy(l.orders, orders)
	l.mu.Unlock()
	l.notify()
}
