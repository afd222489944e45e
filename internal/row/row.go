package row

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// IDField is the surrogate identifier convention: every persisted row carries
// a unique "id" field, assigned by the store when absent at insert time.
const IDField = "id"

// Row is an open mapping from field name to value. Collections impose no
// schema beyond the IDField convention; field sets are whatever the calling
// application writes.
type Row map[string]Value

func (Row) fieldValue() {}

// ID returns the row's identifier in string form, and whether it is present
// and non-empty.
func (r Row) ID() (string, bool) {
	v, ok := r[IDField]
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	if !ok || s == "" {
		return "", false
	}
	return string(s), true
}

// Clone returns a shallow-per-field copy of the row. Nested rows (from
// expansion) are cloned recursively so callers can never alias store state.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		if nested, ok := v.(Row); ok {
			out[k] = nested.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of the row with every field of patch overwriting the
// corresponding field; fields absent from patch are retained. The receiver
// is not modified.
func (r Row) Merge(patch Row) Row {
	out := r.Clone()
	if out == nil {
		out = make(Row, len(patch))
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Equal reports field-wise equality of two rows.
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// SortedKeys returns the row's field names in lexical order for
// deterministic iteration and serialization.
func (r Row) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON implements json.Marshaler with sorted keys, so the same row
// always serializes to the same bytes regardless of map iteration order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range r.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalValue(r[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = make(Row, len(raw))
	for k, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		(*r)[k] = val
	}
	return nil
}

// FromAny converts a generic decoded value (from YAML or CUE seed files) into
// a Value. Integers and floats both become Number; strings in RFC 3339 form
// become Time, matching the JSON codec's re-detection rule.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		data, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return UnmarshalValue(data)
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case map[string]any:
		return RowFromAny(val)
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// RowFromAny converts a generic string-keyed map into a Row.
func RowFromAny(m map[string]any) (Row, error) {
	out := make(Row, len(m))
	for k, v := range m {
		val, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}
