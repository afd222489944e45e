package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rihla-app/localbase/internal/query"
	"github.com/rihla-app/localbase/internal/row"
)

func TestLoadScenario_ParsesYAML(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/trip-lifecycle.yaml")
	require.NoError(t, err)

	assert.Equal(t, "trip-lifecycle", scenario.Name)
	assert.Len(t, scenario.Steps, 4)
	assert.Len(t, scenario.Assertions, 2)

	q := scenario.Steps[1]
	assert.Equal(t, "query", q.Op)
	assert.True(t, q.Single)
	require.NotNil(t, q.Expand)
	assert.Equal(t, "driver", q.Expand.Field)
	assert.Equal(t, "driver_id", q.Expand.ForeignKey)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	assert.Error(t, err)
}

func TestLoadScenario_RejectsInvalid(t *testing.T) {
	writeScenario := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "scenario.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		return path
	}

	t.Run("no name", func(t *testing.T) {
		_, err := LoadScenario(writeScenario(t, "steps:\n  - op: reset\n"))
		assert.ErrorContains(t, err, "name is required")
	})

	t.Run("no steps", func(t *testing.T) {
		_, err := LoadScenario(writeScenario(t, "name: empty\n"))
		assert.ErrorContains(t, err, "no steps")
	})

	t.Run("unknown op", func(t *testing.T) {
		_, err := LoadScenario(writeScenario(t, "name: bad\nsteps:\n  - op: explode\n"))
		assert.ErrorContains(t, err, "unknown op")
	})

	t.Run("query without collection", func(t *testing.T) {
		_, err := LoadScenario(writeScenario(t, "name: bad\nsteps:\n  - op: query\n"))
		assert.ErrorContains(t, err, "requires a collection")
	})

	t.Run("unknown assertion", func(t *testing.T) {
		_, err := LoadScenario(writeScenario(t,
			"name: bad\nsteps:\n  - op: reset\nassertions:\n  - type: telepathy\n"))
		assert.ErrorContains(t, err, "unknown type")
	})
}

func TestPredicates_ClauseConversion(t *testing.T) {
	preds, err := predicates([]WhereClause{
		{Column: "status", Value: "completed"},
		{Column: "fare", Op: "gte", Value: 20},
		{Column: "origin", Op: "contains", Value: "road"},
	})
	require.NoError(t, err)
	require.Len(t, preds, 3)

	assert.Equal(t, query.Eq{Column: "status", Value: row.String("completed")}, preds[0])
	assert.Equal(t, query.Gte{Column: "fare", Value: row.Number(20)}, preds[1])
	assert.Equal(t, query.Contains{Column: "origin", Pattern: "road"}, preds[2])
}

func TestPredicates_UnknownOp(t *testing.T) {
	_, err := predicates([]WhereClause{{Column: "x", Op: "lt", Value: 1}})
	assert.ErrorContains(t, err, "unknown op")
}

func TestEqualityClauses_RejectNonEq(t *testing.T) {
	_, err := equalityClauses([]WhereClause{{Column: "fare", Op: "gte", Value: 1}})
	assert.ErrorContains(t, err, "only eq")
}
