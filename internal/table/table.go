// Package table is the in-memory tabular model shared by the generators,
// the file writers and the validation engine.
//
// Cells hold string, int64, float64, bool, time.Time (calendar dates) or
// nil. A Table is read-only; build one with a Builder.
package table

import (
	"fmt"
	"time"
)

type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]any
}

// Empty returns a table with the given columns and no rows.
func Empty(name string, columns ...string) *Table {
	return NewBuilder(name, columns...).Build()
}

func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

func (t *Table) IsEmpty() bool { return t.Len() == 0 }

func (t *Table) Has(column string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[column]
	return ok
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []any {
	return append([]any(nil), t.rows[i]...)
}

// Value returns the cell at row i, column col, or nil when the column does
// not exist.
func (t *Table) Value(i int, col string) any {
	j, ok := t.index[col]
	if !ok {
		return nil
	}
	return t.rows[i][j]
}

// Column returns every value of col in row order.
func (t *Table) Column(col string) []any {
	out := make([]any, t.Len())
	j, ok := t.index[col]
	if !ok {
		return out
	}
	for i, row := range t.rows {
		out[i] = row[j]
	}
	return out
}

func (t *Table) String(i int, col string) (string, bool) {
	s, ok := t.Value(i, col).(string)
	return s, ok
}

// Float reads numeric cells of either representation.
func (t *Table) Float(i int, col string) (float64, bool) {
	switch v := t.Value(i, col).(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (t *Table) Int(i int, col string) (int64, bool) {
	switch v := t.Value(i, col).(type) {
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

func (t *Table) Date(i int, col string) (time.Time, bool) {
	d, ok := t.Value(i, col).(time.Time)
	return d, ok
}

func (t *Table) Bool(i int, col string) (bool, bool) {
	b, ok := t.Value(i, col).(bool)
	return b, ok
}

// Clone returns a builder holding a deep copy of the rows, for callers that
// need a modified version of the table.
func (t *Table) Clone() *Builder {
	b := NewBuilder(t.name, t.columns...)
	b.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		b.rows[i] = append([]any(nil), row...)
	}
	return b
}

// Builder accumulates rows for a table owned by a single producer.
type Builder struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]any
}

func NewBuilder(name string, columns ...string) *Builder {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return &Builder{name: name, columns: append([]string(nil), columns...), index: index}
}

// Append adds one row; values must follow column order.
func (b *Builder) Append(values ...any) error {
	if len(values) != len(b.columns) {
		return fmt.Errorf("table %s: row has %d values, want %d", b.name, len(values), len(b.columns))
	}
	b.rows = append(b.rows, append([]any(nil), values...))
	return nil
}

// Set overwrites a single cell.
func (b *Builder) Set(i int, col string, v any) error {
	j, ok := b.index[col]
	if !ok {
		return fmt.Errorf("table %s: unknown column %s", b.name, col)
	}
	if i < 0 || i >= len(b.rows) {
		return fmt.Errorf("table %s: row %d out of range", b.name, i)
	}
	b.rows[i][j] = v
	return nil
}

func (b *Builder) Len() int { return len(b.rows) }

// Build hands the rows over to an immutable Table. The builder must not be
// used afterwards.
func (b *Builder) Build() *Table {
	t := &Table{name: b.name, columns: b.columns, index: b.index, rows: b.rows}
	b.rows = nil
	return t
}
