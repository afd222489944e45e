package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DeterministicTrace(t *testing.T) {
	scenario := &Scenario{
		Name: "determinism",
		Steps: []Step{
			{Op: "insert", Collection: "trips", Rows: []map[string]any{
				{"status": "requested"},
			}},
			{Op: "signin_provider", Provider: "google"},
		},
	}

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_SeedVisibleToSteps(t *testing.T) {
	scenario := &Scenario{
		Name: "seeded",
		Seed: map[string][]map[string]any{
			"wallets": {
				{"id": "wallet-1", "balance": 100},
			},
		},
		Steps: []Step{
			{Op: "query", Collection: "wallets", Single: true,
				Where: []WhereClause{{Column: "id", Value: "wallet-1"}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Passed(), "failures: %v", result.Failures)
	require.Len(t, result.Trace, 1)
	assert.NotNil(t, result.Trace[0].Row)
}

func TestRun_UpsertThenAssertFinalState(t *testing.T) {
	scenario := &Scenario{
		Name: "wallet-topup",
		Seed: map[string][]map[string]any{
			"wallets": {
				{"id": "wallet-1", "balance": 100, "currency": "SAR"},
			},
		},
		Steps: []Step{
			{Op: "upsert", Collection: "wallets", Rows: []map[string]any{
				{"id": "wallet-1", "balance": 150},
			}},
		},
		Assertions: []Assertion{
			{Type: AssertFinalState, Collection: "wallets",
				Where:  []WhereClause{{Column: "id", Value: "wallet-1"}},
				Expect: map[string]any{"balance": 150, "currency": "SAR"}},
			{Type: AssertRowCount, Collection: "wallets", Count: 1},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)
}

func TestRun_ExpectedErrorMatches(t *testing.T) {
	scenario := &Scenario{
		Name: "missing-row",
		Steps: []Step{
			{Op: "query", Collection: "trips", Single: true,
				Where:       []WhereClause{{Column: "id", Value: "ghost"}},
				ExpectError: "NOT_FOUND"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, "NOT_FOUND", result.Trace[0].Error)
}

func TestRun_UnexpectedErrorFailsScenario(t *testing.T) {
	scenario := &Scenario{
		Name: "unexpected-error",
		Steps: []Step{
			{Op: "query", Collection: "trips", Single: true},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed())
}

func TestRun_ExpectedErrorButStepSucceeds(t *testing.T) {
	scenario := &Scenario{
		Name: "wrongly-expected-error",
		Steps: []Step{
			{Op: "insert", Collection: "trips",
				Rows:        []map[string]any{{"id": "trip-1"}},
				ExpectError: "NOT_FOUND"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed())
}

func TestRun_SessionAssertion(t *testing.T) {
	scenario := &Scenario{
		Name: "signed-out-at-end",
		Steps: []Step{
			{Op: "signup", Email: "a@b.c", Password: "pw"},
			{Op: "signout"},
		},
		Assertions: []Assertion{
			{Type: AssertSessionPresent, Present: false},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)

	var events []string
	for _, e := range result.Trace {
		if e.Op == "event" {
			events = append(events, e.Event)
		}
	}
	assert.Equal(t, []string{"signed-in", "signed-out"}, events)
}

func TestRun_ResetClearsSeed(t *testing.T) {
	scenario := &Scenario{
		Name: "reset",
		Seed: map[string][]map[string]any{
			"trips": {{"id": "trip-1"}},
		},
		Steps: []Step{
			{Op: "reset"},
			{Op: "query", Collection: "trips"},
		},
		Assertions: []Assertion{
			{Type: AssertRowCount, Collection: "trips", Count: 0},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Passed(), "failures: %v", result.Failures)
	assert.Empty(t, result.Trace[1].Rows)
}
