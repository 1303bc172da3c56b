// Package store provides SQLite-backed persistence for application state.
//
// State is stored as keyed JSON documents under two scopes:
//   - ScopeLocal: the authoritative local copies
//   - ScopeCloud: the simulated cloud mirror copies
//
// Each scope holds up to three keys (technician roster, order ledger,
// application settings). Writes replace a key's document wholesale; there is
// no row-level merging.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
