// Package backend is the client-facing handle of the local data-backend
// emulator.
//
// A Backend is constructed once at startup (see internal/config for the
// mode switch that decides whether it is constructed at all) and passed to
// every component that needs data access. It owns the single mutex that
// makes every store operation appear atomic: the original backend client
// runs on a cooperative event loop where nothing yields mid-mutation, and
// this port preserves that illusion explicitly rather than by accident.
//
// Reads, queries (including their expansion lookups), and read-modify-write
// mutations all hold the lock for their full duration, so a query never
// observes a partial scan and an update-by-predicate can never interleave
// with a concurrent insert.
//
// Queries are obtained via From and executed through the one-shot builder in
// internal/query; mutations (Insert, Upsert, Update, Delete) are direct
// methods. Mutations and queries are not cancellable once issued - they are
// fast and local - but every method takes a context because the store's SQL
// layer does.
package backend
