package features

import (
	"errors"
	"fmt"
	"strings"
)

// ErrColumnOrder is returned when two column lists disagree.
var ErrColumnOrder = errors.New("feature column order mismatch")

// Aligner expands a partial record into the full, fixed-order row a
// trained pipeline expects. It holds no mutable state after construction.
type Aligner struct {
	columns []string
	index   map[string]int
}

// NewAligner creates an Aligner over columns, which must be non-empty and
// free of duplicates.
func NewAligner(columns []string) (*Aligner, error) {
	if len(columns) == 0 {
		return nil, errors.New("feature column list is empty")
	}

	cols := append([]string(nil), columns...)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if c == "" {
			return nil, fmt.Errorf("feature column %d has an empty name", i)
		}
		if prev, dup := index[c]; dup {
			return nil, fmt.Errorf("feature column %q appears at positions %d and %d", c, prev, i)
		}
		index[c] = i
	}

	return &Aligner{columns: cols, index: index}, nil
}

// Columns returns a copy of the aligner's column list.
func (a *Aligner) Columns() []string {
	return append([]string(nil), a.columns...)
}

// Align builds a Vector from values. Every column starts Absent; values are
// overlaid by exact, case-sensitive name and unknown keys are ignored.
// PrimaryPropertyType and Neighborhood are lower-cased and Absent becomes ""
// on those two columns only.
func (a *Aligner) Align(values map[string]interface{}) Vector {
	row := make([]interface{}, len(a.columns))
	for i := range row {
		row[i] = Absent
	}

	for name, value := range values {
		i, ok := a.index[name]
		if !ok || value == nil {
			continue
		}
		row[i] = value
	}

	for name := range categoricalColumns {
		i, ok := a.index[name]
		if !ok {
			continue
		}
		switch v := row[i].(type) {
		case string:
			row[i] = strings.ToLower(v)
		case absent:
			row[i] = ""
		}
	}

	return Vector{columns: a.columns, values: row}
}

// CheckOrder verifies that actual lists exactly the columns of expected in
// the same order.
func CheckOrder(expected, actual []string) error {
	if len(expected) != len(actual) {
		return fmt.Errorf("%w: expected %d columns, got %d", ErrColumnOrder, len(expected), len(actual))
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return fmt.Errorf("%w: position %d is %q, expected %q", ErrColumnOrder, i, actual[i], expected[i])
		}
	}
	return nil
}
