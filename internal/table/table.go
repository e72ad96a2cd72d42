// Package table holds the in-memory dataset that quality dimensions are
// scored against: an ordered set of named columns and rows of cells.
package table

import (
	"errors"
	"fmt"
	"sort"
)

// ErrRowWidth is returned when a row does not match the column count.
var ErrRowWidth = errors.New("row width does not match column count")

// Table is an ordered sequence of rows sharing the same ordered columns.
// Once loaded it is treated as read-only by every consumer.
type Table struct {
	columns []string
	rows    [][]Value
}

func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// FromRecords builds a table from record maps such as the ones returned by
// a JSON row API. Column order follows first appearance (keys of a single
// record in sorted order); keys missing from a record become null cells.
func FromRecords(records []map[string]any) *Table {
	index := make(map[string]int)
	var columns []string
	for _, rec := range records {
		for _, key := range sortedKeys(rec) {
			if _, ok := index[key]; !ok {
				index[key] = len(columns)
				columns = append(columns, key)
			}
		}
	}

	t := New(columns)
	t.rows = make([][]Value, 0, len(records))
	for _, rec := range records {
		row := make([]Value, len(columns))
		for key, raw := range rec {
			row[index[key]] = FromAny(raw)
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// AppendRow adds a row. The slice is retained.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("append row %d: %w (got %d, want %d)", len(t.rows), ErrRowWidth, len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// RowCount is safe on a nil table.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// ColumnCount is safe on a nil table.
func (t *Table) ColumnCount() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// Empty reports whether there is nothing to score: no table, no rows or no
// columns.
func (t *Table) Empty() bool {
	return t.RowCount() == 0 || t.ColumnCount() == 0
}

func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) ColumnName(i int) string { return t.columns[i] }

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) Cell(row, col int) Value { return t.rows[row][col] }

// Row returns the backing slice of a row; callers must not modify it.
func (t *Table) Row(i int) []Value { return t.rows[i] }

// Column copies out the values of column i in row order.
func (t *Table) Column(i int) []Value {
	out := make([]Value, len(t.rows))
	for r, row := range t.rows {
		out[r] = row[i]
	}
	return out
}

// NonNull returns the non-null values of column i in row order.
func (t *Table) NonNull(i int) []Value {
	out := make([]Value, 0, len(t.rows))
	for _, row := range t.rows {
		if !row[i].IsNull() {
			out = append(out, row[i])
		}
	}
	return out
}

// sortedKeys gives records a stable column order since map iteration is
// random.
func sortedKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
