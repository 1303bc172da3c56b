// Package settings holds the process-wide application settings, including
// the capture-form schema.
//
// The schema is an ordered sequence of field definitions; definition order is
// capture order. Fields are only ever appended or removed, never reordered
// or edited in place.
package settings

import (
	"sync"

	"github.com/portotpc/mantemos/internal/model"
)

// Store is the mutable AppSettings singleton with change notification.
//
// Thread-safety: all methods are safe for concurrent use. Observers run
// after the mutation completes, outside the lock.
type Store struct {
	mu        sync.RWMutex
	settings  model.AppSettings
	gen       model.IDGenerator
	observers []func()
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the field-id generator (for deterministic tests).
func WithIDGenerator(gen model.IDGenerator) Option {
	return func(s *Store) { s.gen = gen }
}

// NewStore creates a store seeded with the default settings and schema.
func NewStore(opts ...Option) *Store {
	s := &Store{
		settings: model.DefaultSettings(),
		gen:      model.UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer invoked after every mutation.
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

// Get returns a copy of the current settings.
func (s *Store) Get() model.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// copyLocked deep-copies the settings so callers cannot alias the field
// slice. Caller must hold s.mu.
func (s *Store) copyLocked() model.AppSettings {
	out := s.settings
	out.Fields = make([]model.FieldDefinition, len(s.settings.Fields))
	copy(out.Fields, s.settings.Fields)
	return out
}

// Replace swaps the whole settings object, used by admin updates, backup
// import and cloud pull.
func (s *Store) Replace(settings model.AppSettings) {
	s.mu.Lock()
	s.settings = settings
	s.settings.Fields = make([]model.FieldDefinition, len(settings.Fields))
	copy(s.settings.Fields, settings.Fields)
	s.mu.Unlock()
	s.notify()
}

// Fields returns the current schema in definition order. Copy.
func (s *Store) Fields() []model.FieldDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FieldDefinition, len(s.settings.Fields))
	copy(out, s.settings.Fields)
	return out
}

// AddField appends a field definition with a fresh id to the end of the
// schema and returns the stored definition.
//
// Historical orders are keyed by label and are not migrated: a new field
// only appears on orders issued after this call.
func (s *Store) AddField(f model.FieldDefinition) model.FieldDefinition {
	s.mu.Lock()
	f.ID = s.gen.Generate()
	s.settings.Fields = append(s.settings.Fields, f)
	s.mu.Unlock()
	s.notify()
	return f
}

// RemoveField deletes the field with the given id. Removing an absent id is
// a no-op. Historical orders keep the removed field's captured values.
func (s *Store) RemoveField(id string) {
	s.mu.Lock()
	kept := s.settings.Fields[:0]
	for _, f := range s.settings.Fields {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.settings.Fields = kept
	s.mu.Unlock()
	s.notify()
}
