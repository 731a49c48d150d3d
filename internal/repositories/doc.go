// Package repositories implements SQLite persistence for lookup history.
//
// Key Implementations:
//   - [LookupRepository] : one row per preview lookup, listed newest first
//
// Sequence numbers provide stable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
