// Package query implements the predicate engine, the one-shot query builder,
// and the relationship resolver.
//
// Everything here is purely functional over its inputs: predicates are
// immutable once constructed, Apply never mutates the row slice it is given
// beyond reordering its own copy, and the resolver works off a lookup
// callback. No locking happens in this package - the backend serializes
// store access and hands finished row snapshots in.
//
// The predicate language is a small, fixed subset of the hosted backend's
// query surface: equality, case-insensitive pattern-contains,
// greater-or-equal, and one level of OR over equality clauses. That is
// every shape the application actually sends. It is a deliberate scope
// boundary, not a starting point for a general boolean-expression tree.
package query
