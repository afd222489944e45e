package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rihla-app/localbase/internal/query"
	"github.com/rihla-app/localbase/internal/row"
)

func TestInsert_AssignsSurrogateIDs(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	inserted, err := b.Insert(ctx, "notifications",
		row.Row{"title": row.String("first")},
		row.Row{"title": row.String("second")},
	)
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	id1, ok := inserted[0].ID()
	require.True(t, ok)
	id2, ok := inserted[1].ID()
	require.True(t, ok)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, "row-1", id1)
	assert.Equal(t, "row-2", id2)
}

func TestInsert_KeepsCallerID(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	inserted, err := b.Insert(ctx, "trips", row.Row{"id": row.String("t1")})
	require.NoError(t, err)
	require.Len(t, inserted, 1)

	id, ok := inserted[0].ID()
	require.True(t, ok)
	assert.Equal(t, "t1", id)
}

func TestInsert_DoesNotMutateArgument(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	arg := row.Row{"title": row.String("hello")}
	_, err := b.Insert(ctx, "notifications", arg)
	require.NoError(t, err)

	_, has := arg[row.IDField]
	assert.False(t, has, "caller row mutated: %v", arg)
}

func TestUpsert_MergesExistingRow(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	_, err := b.Insert(ctx, "wallets",
		row.Row{"id": row.String("x"), "balance": row.Number(100), "currency": row.String("SAR")})
	require.NoError(t, err)

	out, err := b.Upsert(ctx, "wallets",
		row.Row{"id": row.String("x"), "balance": row.Number(150)})
	require.NoError(t, err)
	require.Len(t, out, 1)

	res, err := b.From("wallets").Execute(ctx)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, row.Number(150), res.Rows[0]["balance"])
	assert.Equal(t, row.String("SAR"), res.Rows[0]["currency"])
}

func TestUpsert_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	payload := row.Row{"id": row.String("x"), "balance": row.Number(150)}
	_, err := b.Upsert(ctx, "wallets", payload)
	require.NoError(t, err)
	_, err = b.Upsert(ctx, "wallets", payload)
	require.NoError(t, err)

	res, err := b.From("wallets").Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 1)
}

func TestUpsert_AppendsWhenNoIDMatch(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	out, err := b.Upsert(ctx, "wallets", row.Row{"balance": row.Number(0)})
	require.NoError(t, err)
	require.Len(t, out, 1)

	id, ok := out[0].ID()
	require.True(t, ok)
	assert.Equal(t, "row-1", id)
}

func TestUpdate_PatchesAllMatches(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	_, err := b.Insert(ctx, "trips",
		row.Row{"id": row.String("t1"), "status": row.String("requested")},
		row.Row{"id": row.String("t2"), "status": row.String("requested")},
		row.Row{"id": row.String("t3"), "status": row.String("completed")},
	)
	require.NoError(t, err)

	updated, err := b.Update(ctx, "trips",
		[]query.Predicate{query.Eq{Column: "status", Value: row.String("requested")}},
		row.Row{"status": row.String("cancelled")})
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	res, err := b.From("trips").Eq("status", row.String("cancelled")).Execute(ctx)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestUpdate_ZeroMatchesIsNotAnError(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	updated, err := b.Update(ctx, "trips",
		[]query.Predicate{query.Eq{Column: "id", Value: row.String("ghost")}},
		row.Row{"status": row.String("cancelled")})
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestDelete_RemovesMatches(t *testing.T) {
	ctx := context.Background()
	b := createTestBackend(t)

	_, err := b.Insert(ctx, "notifications",
		row.Row{"id": row.String("n1"), "read": row.Bool(true)},
		row.Row{"id": row.String("n2"), "read": row.Bool(false)},
	)
	require.NoError(t, err)

	removed, err := b.Delete(ctx, "notifications",
		[]query.Predicate{query.Eq{Column: "read", Value: row.Bool(true)}})
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, row.String("n1"), removed[0]["id"])

	res, err := b.From("notifications").Execute(ctx)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, row.String("n2"), res.Rows[0]["id"])
}
