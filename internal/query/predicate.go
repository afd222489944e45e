package query

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/rihla-app/localbase/internal/row"
)

// Predicate represents a row-matching condition.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the matcher.
//
// Predicate types:
//   - Eq: column equals a literal value
//   - Contains: stringified column contains a substring, case-insensitive
//   - Gte: column is greater than or equal to a literal value
//   - AnyOf: one level of OR over equality clauses
//
// All predicates attached to one query combine by logical AND; only AnyOf
// ORs internally, and only over equality clauses.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Eq matches rows whose column equals the given value.
//
// Equality follows row.Equal: variants must agree, except that a Time and an
// RFC 3339 string naming the same instant are equal. A missing column never
// matches.
type Eq struct {
	Column string
	Value  row.Value
}

func (Eq) predicateNode() {}

// Contains matches rows whose stringified column value contains Pattern,
// case-insensitively.
//
// Both sides are NFC-normalized before folding so that accented names match
// regardless of the composition form they were typed in. A missing column
// never matches.
type Contains struct {
	Column  string
	Pattern string
}

func (Contains) predicateNode() {}

// Gte matches rows whose column is greater than or equal to the given value,
// using the natural ordering of the value's variant: numeric for Number,
// lexical for String, chronological for Time. Incomparable pairs and missing
// columns never match.
type Gte struct {
	Column string
	Value  row.Value
}

func (Gte) predicateNode() {}

// AnyOf matches rows satisfying at least one of its equality clauses.
//
// The hosted backend's OR helper only ever receives flat equality clauses
// from the application, so richer inner predicates are intentionally not
// representable. An empty clause list matches nothing.
type AnyOf struct {
	Clauses []Eq
}

func (AnyOf) predicateNode() {}

// Matches reports whether a row satisfies every predicate in the list.
// An empty list matches every row.
func Matches(r row.Row, preds []Predicate) bool {
	for _, p := range preds {
		if !matchOne(r, p) {
			return false
		}
	}
	return true
}

func matchOne(r row.Row, p Predicate) bool {
	switch pred := p.(type) {
	case Eq:
		v, ok := r[pred.Column]
		return ok && row.Equal(v, pred.Value)

	case Contains:
		v, ok := r[pred.Column]
		if !ok {
			return false
		}
		haystack := foldForMatch(row.Stringify(v))
		needle := foldForMatch(pred.Pattern)
		return strings.Contains(haystack, needle)

	case Gte:
		v, ok := r[pred.Column]
		if !ok {
			return false
		}
		c, ok := row.Compare(v, pred.Value)
		return ok && c >= 0

	case AnyOf:
		for _, clause := range pred.Clauses {
			if matchOne(r, clause) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

// foldForMatch prepares a string for case-insensitive containment testing.
func foldForMatch(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
