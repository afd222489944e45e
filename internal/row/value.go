package row

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Value is a sealed interface over the field values a collection row can hold.
// Only String, Number, Bool, Time, Null, and Row implement it.
//
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in the predicate engine and the store codec.
//
// Persisted rows only ever contain the scalar variants. The Row variant exists
// so relationship expansion can attach a related row under a field name in
// query results.
type Value interface {
	fieldValue() // Marker method - seals interface to this package
}

// Null represents an explicit null field value.
// Using a concrete type (rather than a nil Value) keeps type switches total.
type Null struct{}

func (Null) fieldValue() {}

// String represents a text field value.
type String string

func (String) fieldValue() {}

// Number represents a numeric field value.
// Always float64: rows round-trip through JSON, where every number is a
// double. Wallet balances and fares are decimal, so integers alone would
// not do.
type Number float64

func (Number) fieldValue() {}

// Bool represents a boolean field value.
type Bool bool

func (Bool) fieldValue() {}

// Time represents a timestamp field value.
// Serialized as an RFC 3339 string; see UnmarshalValue for the re-detection
// rule on the way back in.
type Time time.Time

func (Time) fieldValue() {}

// Equal reports whether two values are equal.
//
// Values of different variants are unequal, with one exception: a Time and a
// String that parses as the same RFC 3339 instant are equal. Callers that
// built a row in memory (Time) must keep matching rows that went through the
// store (where a timestamp surfaces as its string form).
func Equal(a, b Value) bool {
	if ta, ok := a.(Time); ok {
		if tb, ok := coerceTime(b); ok {
			return time.Time(ta).Equal(time.Time(tb))
		}
		return false
	}
	if _, ok := b.(Time); ok {
		return Equal(b, a)
	}

	switch va := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		vb, ok := b.(String)
		return ok && va == vb
	case Number:
		vb, ok := b.(Number)
		return ok && va == vb
	case Bool:
		vb, ok := b.(Bool)
		return ok && va == vb
	case Row:
		vb, ok := b.(Row)
		return ok && va.Equal(vb)
	default:
		return false
	}
}

// Compare returns the three-way ordering of a and b, and whether the pair is
// comparable at all.
//
// Ordering follows the natural order of the variant: numeric for Number,
// lexical for String, chronological for Time. A Time compares against a
// String holding an RFC 3339 instant. Everything else - mixed variants,
// Null, Bool, nested rows - is not comparable.
func Compare(a, b Value) (int, bool) {
	if ta, ok := a.(Time); ok {
		tb, ok := coerceTime(b)
		if !ok {
			return 0, false
		}
		return time.Time(ta).Compare(time.Time(tb)), true
	}
	if _, ok := b.(Time); ok {
		c, ok := Compare(b, a)
		return -c, ok
	}

	switch va := a.(type) {
	case String:
		vb, ok := b.(String)
		if !ok {
			return 0, false
		}
		switch {
		case va < vb:
			return -1, true
		case va > vb:
			return 1, true
		default:
			return 0, true
		}
	case Number:
		vb, ok := b.(Number)
		if !ok {
			return 0, false
		}
		switch {
		case va < vb:
			return -1, true
		case va > vb:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// coerceTime interprets v as a timestamp if possible.
func coerceTime(v Value) (Time, bool) {
	switch tv := v.(type) {
	case Time:
		return tv, true
	case String:
		if t, err := time.Parse(time.RFC3339, string(tv)); err == nil {
			return Time(t), true
		}
	}
	return Time{}, false
}

// Stringify renders a value as text for case-insensitive pattern matching.
// Null renders empty, which can never contain a non-empty pattern.
func Stringify(v Value) string {
	switch val := v.(type) {
	case Null:
		return ""
	case String:
		return string(val)
	case Number:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Time:
		return time.Time(val).Format(time.RFC3339)
	case Row:
		data, err := val.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

// MarshalValue marshals a value to JSON bytes.
// Uses type-switch dispatch to handle all Value variants.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Number:
		return json.Marshal(float64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Time:
		return json.Marshal(time.Time(val).Format(time.RFC3339))
	case Row:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

// UnmarshalValue decodes a JSON value into the appropriate Value variant.
//
// JSON carries no timestamp type, so strings in RFC 3339 form are re-detected
// as Time on the way in. This keeps timestamps comparable chronologically
// after a round trip through the store. Arrays are rejected: no call site in
// the application stores one.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return Time(t), nil
		}
		return String(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil

	case 'n':
		return Null{}, nil

	case '{':
		var r Row
		if err := r.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return r, nil

	case '[':
		return nil, fmt.Errorf("array values are not supported")

	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return Number(n), nil
	}
}
