// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [TokenRepository] : OAuth token cache; the newest row is the active token
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables,
// giving rows a stable insertion order independent of UUIDs and creation timestamps.
package repositories
