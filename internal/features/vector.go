package features

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type absent struct{}

func (absent) String() string { return "<absent>" }

// MarshalJSON encodes an absent cell as null.
func (absent) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// Absent marks a column the caller did not supply. It is distinct from
// zero and from "" so the model never sees an invented value.
var Absent interface{} = absent{}

// IsAbsent reports whether v is the Absent marker.
func IsAbsent(v interface{}) bool {
	_, ok := v.(absent)
	return ok
}

// Encoding controls how absent cells are serialized for a scorer.
type Encoding int

const (
	// EncodeNull writes absent cells as JSON null.
	EncodeNull Encoding = iota
	// EncodeOmit drops absent cells from the payload.
	EncodeOmit
)

// ParseEncoding maps a configuration value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "", "null":
		return EncodeNull, nil
	case "omit":
		return EncodeOmit, nil
	default:
		return EncodeNull, fmt.Errorf("unknown absent encoding %q", s)
	}
}

// Vector is one aligned row. Its column slice is shared with the Aligner
// and must not be modified.
type Vector struct {
	columns []string
	values  []interface{}
}

// Columns returns the column names in training order.
func (v Vector) Columns() []string {
	return append([]string(nil), v.columns...)
}

// Len returns the number of columns.
func (v Vector) Len() int {
	return len(v.columns)
}

// At returns the value of the i-th column.
func (v Vector) At(i int) interface{} {
	return v.values[i]
}

// Get returns the value of the named column.
func (v Vector) Get(name string) (interface{}, bool) {
	for i, c := range v.columns {
		if c == name {
			return v.values[i], true
		}
	}
	return nil, false
}

// Float returns the named column as a float64. ok is false when the column
// is missing, absent or not numeric.
func (v Vector) Float(name string) (float64, bool) {
	value, found := v.Get(name)
	if !found {
		return 0, false
	}
	switch n := value.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Encode serializes the row as a JSON object keyed by column in training
// order, applying enc to absent cells.
func (v Vector) Encode(enc Encoding) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i, c := range v.columns {
		value := v.values[i]
		if enc == EncodeOmit && IsAbsent(value) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode feature %s: %w", c, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
