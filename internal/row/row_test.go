package row

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowID(t *testing.T) {
	id, ok := Row{"id": String("t1")}.ID()
	require.True(t, ok)
	assert.Equal(t, "t1", id)

	_, ok = Row{"id": String("")}.ID()
	assert.False(t, ok)

	_, ok = Row{"name": String("Ahmed")}.ID()
	assert.False(t, ok)

	// Non-string ids are outside the surrogate identifier convention.
	_, ok = Row{"id": Number(7)}.ID()
	assert.False(t, ok)
}

func TestRowClone_Isolation(t *testing.T) {
	orig := Row{
		"id":     String("t1"),
		"driver": Row{"id": String("d1"), "full_name": String("Ahmed")},
	}

	clone := orig.Clone()
	clone["id"] = String("t2")
	clone["driver"].(Row)["full_name"] = String("Sara")

	assert.Equal(t, String("t1"), orig["id"])
	assert.Equal(t, String("Ahmed"), orig["driver"].(Row)["full_name"])
}

func TestRowMerge(t *testing.T) {
	base := Row{"id": String("x"), "balance": Number(100), "currency": String("EGP")}
	patched := base.Merge(Row{"balance": Number(150)})

	assert.True(t, patched.Equal(Row{
		"id":       String("x"),
		"balance":  Number(150),
		"currency": String("EGP"),
	}))

	// Receiver untouched.
	assert.Equal(t, Number(100), base["balance"])
}

func TestRowJSON_SortedKeysDeterministic(t *testing.T) {
	r := Row{"zeta": Number(1), "alpha": String("a"), "mid": Bool(true)}

	data, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","mid":true,"zeta":1}`, string(data))
}

func TestRowJSON_RoundTrip(t *testing.T) {
	in := Row{
		"id":         String("b1"),
		"fare":       Number(37.5),
		"paid":       Bool(true),
		"note":       Null{},
		"created_at": String("2024-05-01T10:00:00Z"), // becomes Time after round trip
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Row
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.Equal(out))
}

func TestRowFromAny(t *testing.T) {
	r, err := RowFromAny(map[string]any{
		"id":      "w1",
		"balance": 100,
		"rate":    4.9,
		"active":  true,
		"note":    nil,
	})
	require.NoError(t, err)

	assert.True(t, r.Equal(Row{
		"id":      String("w1"),
		"balance": Number(100),
		"rate":    Number(4.9),
		"active":  Bool(true),
		"note":    Null{},
	}))
}

func TestRowFromAny_Unsupported(t *testing.T) {
	_, err := RowFromAny(map[string]any{"bad": []any{1, 2}})
	assert.Error(t, err)
}
