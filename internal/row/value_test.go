package row

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual_SameVariant(t *testing.T) {
	assert.True(t, Equal(String("a"), String("a")))
	assert.False(t, Equal(String("a"), String("b")))
	assert.True(t, Equal(Number(1.5), Number(1.5)))
	assert.False(t, Equal(Number(1), Number(2)))
	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.True(t, Equal(Null{}, Null{}))
}

func TestEqual_MixedVariants(t *testing.T) {
	assert.False(t, Equal(String("1"), Number(1)))
	assert.False(t, Equal(Bool(false), Null{}))
	assert.False(t, Equal(Number(0), Null{}))
}

func TestEqual_TimeAgainstRFC3339String(t *testing.T) {
	instant := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, Equal(Time(instant), String("2024-05-01T10:00:00Z")))
	assert.True(t, Equal(String("2024-05-01T10:00:00Z"), Time(instant)))
	assert.False(t, Equal(Time(instant), String("2024-05-01T11:00:00Z")))
	assert.False(t, Equal(Time(instant), String("not a timestamp")))
}

func TestCompare_Numbers(t *testing.T) {
	c, ok := Compare(Number(1), Number(2))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = Compare(Number(3), Number(2))
	require.True(t, ok)
	assert.Equal(t, 1, c)

	c, ok = Compare(Number(2), Number(2))
	require.True(t, ok)
	assert.Equal(t, 0, c)
}

func TestCompare_Strings(t *testing.T) {
	c, ok := Compare(String("apple"), String("banana"))
	require.True(t, ok)
	assert.Equal(t, -1, c)
}

func TestCompare_Chronological(t *testing.T) {
	early := Time(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := Time(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	c, ok := Compare(early, late)
	require.True(t, ok)
	assert.Equal(t, -1, c)

	// String holding an RFC 3339 instant compares chronologically with Time.
	c, ok = Compare(String("2024-03-01T00:00:00Z"), late)
	require.True(t, ok)
	assert.Equal(t, -1, c)
}

func TestCompare_Incomparable(t *testing.T) {
	_, ok := Compare(Number(1), String("1"))
	assert.False(t, ok)

	_, ok = Compare(Bool(true), Bool(false))
	assert.False(t, ok)

	_, ok = Compare(Null{}, Null{})
	assert.False(t, ok)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "hello", Stringify(String("hello")))
	assert.Equal(t, "1.5", Stringify(Number(1.5)))
	assert.Equal(t, "150", Stringify(Number(150)))
	assert.Equal(t, "true", Stringify(Bool(true)))
	assert.Equal(t, "", Stringify(Null{}))
	assert.Equal(t, "2024-05-01T10:00:00Z",
		Stringify(Time(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))))
}

func TestUnmarshalValue_TimeDetection(t *testing.T) {
	v, err := UnmarshalValue([]byte(`"2024-05-01T10:00:00Z"`))
	require.NoError(t, err)

	tv, ok := v.(Time)
	require.True(t, ok, "RFC 3339 string should decode as Time, got %T", v)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), time.Time(tv))

	v, err = UnmarshalValue([]byte(`"Ahmed"`))
	require.NoError(t, err)
	assert.Equal(t, String("Ahmed"), v)
}

func TestUnmarshalValue_RejectsArrays(t *testing.T) {
	_, err := UnmarshalValue([]byte(`[1,2,3]`))
	assert.Error(t, err)
}

func TestMarshalValue_RoundTrip(t *testing.T) {
	cases := []Value{
		String("driver"),
		Number(42.5),
		Bool(false),
		Null{},
		Time(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)),
	}

	for _, in := range cases {
		data, err := MarshalValue(in)
		require.NoError(t, err)

		out, err := UnmarshalValue(data)
		require.NoError(t, err)
		assert.True(t, Equal(in, out), "round trip changed %v into %v", in, out)
	}
}
