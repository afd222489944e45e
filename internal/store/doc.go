// Package store provides SQLite-backed durable storage for named row
// collections and the session slot.
//
// The store is deliberately dumb: it knows how to read a whole collection in
// insertion order and how to replace a whole collection atomically. All
// filtering, ordering, and merging happens above it, in internal/query and
// internal/backend. This mirrors the behavioral contract of the hosted
// backend it emulates, where the client never sees partial writes.
//
// # Layout
//
//   - rows(collection, pos, id, doc): one JSON document per row, ordered by
//     insertion position within its collection
//   - slots(name, doc): single-record state, currently only the auth session
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// # Failure Semantics
//
// Underlying storage faults are surfaced to the caller and never retried:
// local SQLite failures are not expected to be transient. WriteCollection
// runs in a single transaction, so a failed write leaves the previous
// sequence intact.
package store
