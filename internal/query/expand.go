package query

import (
	"github.com/rihla-app/localbase/internal/row"
)

// Expansion declares a foreign-key attachment: find the row in Collection
// whose id equals the source row's ForeignKey column value, and attach it
// under Field.
//
// Nested allows exactly one second-level attachment, evaluated against the
// attached row (trip -> driver profile, booking -> trip -> driver profile are
// the two join shapes the application needs). Deeper graphs are out of
// scope; this is not a join engine.
type Expansion struct {
	Field      string
	Collection string
	ForeignKey string
	Nested     *Expansion
}

// Lookup returns a collection snapshot by name. The backend supplies one
// that reads under its lock, so expansion sees the same instant as the scan.
type Lookup func(collection string) []row.Row

// Resolve returns a copy of r with every declared expansion applied.
//
// Expansion is best-effort: a missing foreign-key column, a foreign key that
// points nowhere, or an unknown collection simply attaches nothing. It is
// never an error.
func Resolve(r row.Row, expansions []Expansion, lookup Lookup) row.Row {
	if len(expansions) == 0 {
		return r
	}

	out := r.Clone()
	for _, exp := range expansions {
		fk, ok := out[exp.ForeignKey]
		if !ok {
			continue
		}

		related, found := findByID(lookup(exp.Collection), fk)
		if !found {
			continue
		}

		attached := related.Clone()
		if exp.Nested != nil {
			attached = Resolve(attached, []Expansion{*exp.Nested}, lookup)
		}
		out[exp.Field] = attached
	}
	return out
}

// findByID scans a collection snapshot for the row whose id equals the
// foreign-key value.
func findByID(rows []row.Row, fk row.Value) (row.Row, bool) {
	for _, candidate := range rows {
		id, ok := candidate[row.IDField]
		if ok && row.Equal(id, fk) {
			return candidate, true
		}
	}
	return nil, false
}
