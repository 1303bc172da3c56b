package model

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces fresh opaque ids for technicians and field
// definitions. Implemented by UUIDGenerator (production) and FixedGenerator
// (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 ids.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDGenerator struct{}

// Generate returns a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids in order, for deterministic tests.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in the given order.
// Generate panics when the sequence is exhausted.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
