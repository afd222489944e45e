package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rihla-app/localbase/internal/row"
)

func driverRow(id, name string, rating float64) row.Row {
	return row.Row{
		"id":        row.String(id),
		"full_name": row.String(name),
		"rating":    row.Number(rating),
	}
}

func TestMatches_EmptyListMatchesAll(t *testing.T) {
	assert.True(t, Matches(driverRow("d1", "Ahmed", 4.8), nil))
}

func TestMatches_Eq(t *testing.T) {
	r := driverRow("d1", "Ahmed", 4.8)

	assert.True(t, Matches(r, []Predicate{Eq{Column: "id", Value: row.String("d1")}}))
	assert.False(t, Matches(r, []Predicate{Eq{Column: "id", Value: row.String("d2")}}))

	// Missing column never matches.
	assert.False(t, Matches(r, []Predicate{Eq{Column: "vehicle_id", Value: row.String("v1")}}))
}

func TestMatches_AndComposition(t *testing.T) {
	r := driverRow("d1", "Ahmed", 4.8)

	both := []Predicate{
		Eq{Column: "id", Value: row.String("d1")},
		Gte{Column: "rating", Value: row.Number(4.5)},
	}
	assert.True(t, Matches(r, both))

	oneFails := []Predicate{
		Eq{Column: "id", Value: row.String("d1")},
		Gte{Column: "rating", Value: row.Number(4.9)},
	}
	assert.False(t, Matches(r, oneFails))
}

func TestMatches_ContainsCaseInsensitive(t *testing.T) {
	r := driverRow("d1", "Ahmed Hassan", 4.8)

	assert.True(t, Matches(r, []Predicate{Contains{Column: "full_name", Pattern: "ahmed"}}))
	assert.True(t, Matches(r, []Predicate{Contains{Column: "full_name", Pattern: "HASSAN"}}))
	assert.False(t, Matches(r, []Predicate{Contains{Column: "full_name", Pattern: "omar"}}))
}

func TestMatches_ContainsNormalizesComposition(t *testing.T) {
	// "José" typed with a combining accent must match the precomposed form.
	r := row.Row{"full_name": row.String("José Silva")}
	assert.True(t, Matches(r, []Predicate{Contains{Column: "full_name", Pattern: "josé"}}))
}

func TestMatches_ContainsStringifiesNonStrings(t *testing.T) {
	r := row.Row{"seats": row.Number(4)}
	assert.True(t, Matches(r, []Predicate{Contains{Column: "seats", Pattern: "4"}}))
}

func TestMatches_Gte(t *testing.T) {
	r := driverRow("d1", "Ahmed", 4.8)

	assert.True(t, Matches(r, []Predicate{Gte{Column: "rating", Value: row.Number(4.8)}}))
	assert.True(t, Matches(r, []Predicate{Gte{Column: "rating", Value: row.Number(4.0)}}))
	assert.False(t, Matches(r, []Predicate{Gte{Column: "rating", Value: row.Number(5.0)}}))

	// Incomparable pair never matches.
	assert.False(t, Matches(r, []Predicate{Gte{Column: "full_name", Value: row.Number(1)}}))
}

func TestMatches_GteChronological(t *testing.T) {
	r := row.Row{"created_at": row.Time(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))}

	cutoff := row.Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, Matches(r, []Predicate{Gte{Column: "created_at", Value: cutoff}}))

	cutoff = row.Time(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, Matches(r, []Predicate{Gte{Column: "created_at", Value: cutoff}}))
}

func TestMatches_AnyOf(t *testing.T) {
	r := row.Row{"status": row.String("accepted")}

	either := []Predicate{AnyOf{Clauses: []Eq{
		{Column: "status", Value: row.String("requested")},
		{Column: "status", Value: row.String("accepted")},
	}}}
	assert.True(t, Matches(r, either))

	neither := []Predicate{AnyOf{Clauses: []Eq{
		{Column: "status", Value: row.String("cancelled")},
		{Column: "status", Value: row.String("completed")},
	}}}
	assert.False(t, Matches(r, neither))

	// Empty disjunction matches nothing.
	assert.False(t, Matches(r, []Predicate{AnyOf{}}))
}
