package query

import (
	"sort"

	"github.com/rihla-app/localbase/internal/row"
)

// Order describes the optional ordering of a query's result.
type Order struct {
	Column    string
	Ascending bool
}

// Spec is the accumulated description of one query: the collection to scan,
// the predicates to AND together, optional ordering and limit, single-row
// mode, and the relationship expansions to apply to the result.
//
// A Spec is built incrementally by the Builder and executed exactly once.
type Spec struct {
	Collection string
	Predicates []Predicate
	Order      *Order
	Limit      int // 0 means no limit
	Single     bool
	Expansions []Expansion
}

// Apply filters, orders, and limits a collection snapshot according to the
// spec. The input slice is never modified; the returned slice shares its
// rows.
//
// The sort is stable: rows that compare equal - and rows whose order column
// is missing or incomparable - keep their insertion order. Rows missing the
// order column sort after every row that has it.
func Apply(rows []row.Row, spec Spec) []row.Row {
	matched := make([]row.Row, 0, len(rows))
	for _, r := range rows {
		if Matches(r, spec.Predicates) {
			matched = append(matched, r)
		}
	}

	if o := spec.Order; o != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			vi, okI := matched[i][o.Column]
			vj, okJ := matched[j][o.Column]
			if !okI || !okJ {
				// Present sorts before missing; two missing keep order.
				return okI && !okJ
			}
			c, ok := row.Compare(vi, vj)
			if !ok {
				return false
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		})
	}

	if spec.Limit > 0 && len(matched) > spec.Limit {
		matched = matched[:spec.Limit]
	}

	return matched
}
