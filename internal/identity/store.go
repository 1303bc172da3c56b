// Package identity holds the technician roster.
//
// The store is the authoritative in-memory copy; persistence and cloud
// mirroring are driven by subscribers reacting to change notifications.
// Records are never edited in place: the only mutations are add, remove and
// wholesale replacement (backup import / cloud pull).
package identity

import (
	"sync"

	"github.com/portotpc/mantemos/internal/model"
)

// Store is a mutable technician roster with change notification.
//
// Thread-safety: all methods are safe for concurrent use. Observers are
// invoked after the mutation completes, outside the store lock.
type Store struct {
	mu        sync.RWMutex
	techs     []model.Technician
	gen       model.IDGenerator
	observers []func()
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the id generator (for deterministic tests).
func WithIDGenerator(gen model.IDGenerator) Option {
	return func(s *Store) { s.gen = gen }
}

// NewStore creates an empty technician store.
func NewStore(opts ...Option) *Store {
	s := &Store{gen: model.UUIDGenerator{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer invoked after every mutation.
// Observers must not call back into the store synchronously with a mutation.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	obs := make([]func(), len(s.observers))
	copy(obs, s.observers)
	s.mu.RUnlock()
	for _, fn := range obs {
		fn()
	}
}

// Add appends a technician with a fresh opaque id and returns the stored
// record. Login uniqueness is NOT enforced: a duplicate login is shadowed by
// whichever record comes first in storage order when looked up.
func (s *Store) Add(t model.Technician) model.Technician {
	s.mu.Lock()
	t.ID = s.gen.Generate()
	s.techs = append(s.techs, t)
	s.mu.Unlock()
	s.notify()
	return t
}

// Remove deletes the technician with the given id. Removing an absent id is
// a no-op, not an error.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	kept := s.techs[:0]
	for _, t := range s.techs {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.techs = kept
	s.mu.Unlock()
	s.notify()
}

// FindByCredentials returns the first technician in storage order whose
// login and password both match exactly. ok is false on any mismatch,
// including blank input.
func (s *Store) FindByCredentials(login, password string) (model.Technician, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.techs {
		if t.Login == login && t.Password == password {
			return t, true
		}
	}
	return model.Technician{}, false
}

// Verify reports whether the credentials match some technician.
//
// This is the single place credentials are compared. Comparison is exact
// plain-text string equality, matching the persisted data; swapping in a
// hashed scheme later only touches this method and FindByCredentials.
func (s *Store) Verify(login, password string) bool {
	_, ok := s.FindByCredentials(login, password)
	return ok
}

// Get returns the technician with the given id.
func (s *Store) Get(id string) (model.Technician, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.techs {
		if t.ID == id {
			return t, true
		}
	}
	return model.Technician{}, false
}

// List returns the roster in storage order. The returned slice is a copy.
func (s *Store) List() []model.Technician {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Technician, len(s.techs))
	copy(out, s.techs)
	return out
}

// Len returns the roster size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.techs)
}

// ReplaceAll swaps the whole roster, used by backup import and cloud pull.
// No validation is performed; this is an operator-initiated trust boundary.
func (s *Store) ReplaceAll(techs []model.Technician) {
	s.mu.Lock()
	s.techs = make([]model.Technician, len(techs))
	copy(s.techs, techs)
	s.mu.Unlock()
	s.notify()
}
