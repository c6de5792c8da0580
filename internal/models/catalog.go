package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Row is one record of the benchmarking catalog. Cells keep the dataset's
// column order when encoded to JSON. Cell values are int64, float64, string,
// bool, time.Time or nil.
type Row struct {
	columns []string
	values  []interface{}
}

// NewRow creates a row over the given columns. Missing trailing values are nil.
func NewRow(columns []string, values []interface{}) Row {
	cells := make([]interface{}, len(columns))
	copy(cells, values)
	return Row{columns: columns, values: cells}
}

// Get returns the value of the named column.
func (r Row) Get(column string) (interface{}, bool) {
	for i, c := range r.columns {
		if c == column {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns a copy of the row as a column -> value map.
func (r Row) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the row as an object with keys in column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value := r.values[i]
		if f, ok := value.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			value = nil
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode column %s: %w", c, err)
		}
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Dataset is the in-memory benchmarking catalog. It is built once and never
// mutated afterwards, so concurrent readers need no locking.
type Dataset struct {
	columns []string
	rows    []Row
}

// NewDataset builds a dataset from column names and raw cell values.
func NewDataset(columns []string, records [][]interface{}) *Dataset {
	cols := append([]string(nil), columns...)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewRow(cols, rec))
	}
	return &Dataset{columns: cols, rows: rows}
}

// Columns returns a copy of the dataset's column names.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Head returns up to n leading rows.
func (d *Dataset) Head(n int) []Row {
	if d == nil || n <= 0 {
		return []Row{}
	}
	if n > len(d.rows) {
		n = len(d.rows)
	}
	out := make([]Row, n)
	copy(out, d.rows[:n])
	return out
}

// FilterInt returns the rows whose column holds the integer value v.
// Float cells match when they are integral and equal to v.
func (d *Dataset) FilterInt(column string, v int64) []Row {
	out := []Row{}
	if d == nil {
		return out
	}
	for _, row := range d.rows {
		cell, ok := row.Get(column)
		if !ok {
			return out
		}
		switch n := cell.(type) {
		case int64:
			if n == v {
				out = append(out, row)
			}
		case float64:
			if n == float64(v) {
				out = append(out, row)
			}
		}
	}
	return out
}
