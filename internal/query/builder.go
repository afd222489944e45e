package query

import (
	"context"

	"github.com/rihla-app/localbase/internal/row"
)

// Result is the envelope a query execution returns.
//
// In multi-row mode Rows holds the (possibly empty) ordered matches and Row
// is nil. In single-row mode Row holds the first match and Rows is nil; zero
// matches surface as a not-found error from Execute instead.
type Result struct {
	Rows []row.Row
	Row  row.Row
}

// RunFunc executes a finished spec. The backend supplies one that reads the
// store under its lock, applies the spec, and maps single-row misses to its
// not-found error code.
type RunFunc func(ctx context.Context, spec Spec) (Result, error)

// Builder accumulates a query spec through chained calls and executes it
// exactly once.
//
// The hosted client this emulates is a thenable that queries on await, which
// silently risks stale rebuilds; here execution is an explicit step and
// reuse is a loud programming error: a second Execute panics.
//
// A Builder is not safe for concurrent use. Build it, execute it, drop it.
type Builder struct {
	spec     Spec
	run      RunFunc
	executed bool
}

// NewBuilder creates a builder scoped to a collection. Callers normally
// obtain one from the backend handle rather than calling this directly.
func NewBuilder(collection string, run RunFunc) *Builder {
	return &Builder{
		spec: Spec{Collection: collection},
		run:  run,
	}
}

// Where adds an already constructed predicate. The typed chainables below
// cover the common cases; Where exists for callers that build predicates
// programmatically.
func (b *Builder) Where(p Predicate) *Builder {
	b.spec.Predicates = append(b.spec.Predicates, p)
	return b
}

// Eq adds an equality predicate.
func (b *Builder) Eq(column string, value row.Value) *Builder {
	b.spec.Predicates = append(b.spec.Predicates, Eq{Column: column, Value: value})
	return b
}

// Contains adds a case-insensitive pattern-contains predicate.
func (b *Builder) Contains(column, pattern string) *Builder {
	b.spec.Predicates = append(b.spec.Predicates, Contains{Column: column, Pattern: pattern})
	return b
}

// Gte adds a greater-or-equal predicate.
func (b *Builder) Gte(column string, value row.Value) *Builder {
	b.spec.Predicates = append(b.spec.Predicates, Gte{Column: column, Value: value})
	return b
}

// AnyOf adds a disjunction over equality clauses.
func (b *Builder) AnyOf(clauses ...Eq) *Builder {
	b.spec.Predicates = append(b.spec.Predicates, AnyOf{Clauses: clauses})
	return b
}

// OrderBy sets the result ordering. Calling it again replaces the previous
// ordering; the emulated client has the same last-call-wins behavior.
func (b *Builder) OrderBy(column string, ascending bool) *Builder {
	b.spec.Order = &Order{Column: column, Ascending: ascending}
	return b
}

// Limit caps the number of returned rows. Zero means no limit.
func (b *Builder) Limit(n int) *Builder {
	b.spec.Limit = n
	return b
}

// Single marks the query as single-row: Execute returns the first matching
// row directly, or a not-found error when nothing matches.
func (b *Builder) Single() *Builder {
	b.spec.Single = true
	return b
}

// Expand requests a relationship expansion on every result row.
func (b *Builder) Expand(e Expansion) *Builder {
	b.spec.Expansions = append(b.spec.Expansions, e)
	return b
}

// Execute runs the accumulated spec.
//
// A Builder is one-shot: calling Execute a second time panics, because the
// spec may have been mutated since and silently rerunning it would hide the
// bug.
func (b *Builder) Execute(ctx context.Context) (Result, error) {
	if b.executed {
		panic("query: builder executed twice; builders are one-shot")
	}
	b.executed = true
	return b.run(ctx, b.spec)
}
