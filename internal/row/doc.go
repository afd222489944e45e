// Package row defines the schema-less row model shared by the store, the
// query engine, and the mutation operations.
//
// A Row is an open string-keyed map of Value fields. Value is a small sealed
// union - String, Number, Bool, Time, Null, plus nested Row for expansion
// results - so every consumer can type-switch exhaustively instead of
// guessing at dynamic types.
//
// Rows round-trip through canonical-ish JSON: keys are sorted on marshal and
// timestamps travel as RFC 3339 strings that are re-detected as Time on
// unmarshal. The package holds no state and performs no I/O.
package row
