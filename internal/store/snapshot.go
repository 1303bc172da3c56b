package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/portotpc/mantemos/internal/model"
)

// Scope selects which copy of the state a read or write targets.
type Scope string

const (
	// ScopeLocal is the authoritative local copy.
	ScopeLocal Scope = "local"
	// ScopeCloud is the simulated cloud mirror copy.
	ScopeCloud Scope = "cloud"
)

// State key names. Renaming these strands existing databases.
const (
	keyTechnicians = "users"
	keyOrders      = "orders"
	keySettings    = "settings"
)

// Partial is the result of reading a scope. Any of the three parts may be
// nil, meaning that key has never been written in that scope.
type Partial struct {
	Technicians *[]model.Technician
	Orders      *[]model.ServiceOrder
	Settings    *model.AppSettings
}

// putKey upserts one key's JSON document. Last write wins wholesale.
func (s *Store) putKey(ctx context.Context, scope Scope, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", scope, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO state_blobs (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, string(scope), key, string(doc), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", scope, key, err)
	}

	return nil
}

// getKey reads one key's JSON document into v. Returns false when the key
// has never been written.
func (s *Store) getKey(ctx context.Context, scope Scope, key string, v any) (bool, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM state_blobs WHERE scope = ? AND key = ?
	`, string(scope), key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s/%s: %w", scope, key, err)
	}

	if err := json.Unmarshal([]byte(doc), v); err != nil {
		return false, fmt.Errorf("decode %s/%s: %w", scope, key, err)
	}
	return true, nil
}

// SaveTechnicians replaces the roster document in the given scope.
func (s *Store) SaveTechnicians(ctx context.Context, scope Scope, techs []model.Technician) error {
	return s.putKey(ctx, scope, keyTechnicians, techs)
}

// SaveOrders replaces the ledger document in the given scope.
func (s *Store) SaveOrders(ctx context.Context, scope Scope, orders []model.ServiceOrder) error {
	return s.putKey(ctx, scope, keyOrders, orders)
}

// SaveSettings replaces the settings document in the given scope.
func (s *Store) SaveSettings(ctx context.Context, scope Scope, settings model.AppSettings) error {
	return s.putKey(ctx, scope, keySettings, settings)
}

// SaveSnapshot replaces all three documents of a scope atomically.
// Used by the sync push path: the mirror is always replaced wholesale.
func (s *Store) SaveSnapshot(ctx context.Context, scope Scope, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	now := time.Now().UnixMilli()
	for key, v := range map[string]any{
		keyTechnicians: snap.Technicians,
		keyOrders:      snap.Orders,
		keySettings:    snap.Settings,
	} {
		doc, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("save snapshot: marshal %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO state_blobs (scope, key, value, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(scope, key) DO UPDATE SET
				value      = excluded.value,
				updated_at = excluded.updated_at
		`, string(scope), key, string(doc), now); err != nil {
			return fmt.Errorf("save snapshot: write %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit: %w", err)
	}
	return nil
}

// LoadPartial reads whatever documents exist in the given scope. Keys that
// were never written come back nil so the caller can leave the matching
// local state untouched.
func (s *Store) LoadPartial(ctx context.Context, scope Scope) (Partial, error) {
	var p Partial

	var techs []model.Technician
	ok, err := s.getKey(ctx, scope, keyTechnicians, &techs)
	if err != nil {
		return Partial{}, err
	}
	if ok {
		p.Technicians = &techs
	}

	var orders []model.ServiceOrder
	ok, err = s.getKey(ctx, scope, keyOrders, &orders)
	if err != nil {
		return Partial{}, err
	}
	if ok {
		p.Orders = &orders
	}

	var settings model.AppSettings
	ok, err = s.getKey(ctx, scope, keySettings, &settings)
	if err != nil {
		return Partial{}, err
	}
	if ok {
		p.Settings = &settings
	}

	return p, nil
}
