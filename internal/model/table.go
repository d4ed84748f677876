package model

import (
	"errors"
	"fmt"
)

// FixedFields is the number of data columns mapped onto Row's fixed fields
// (email, sequence, name) before the variable info tail begins.
const FixedFields = 3

// Table model errors
var (
	ErrRowOutOfRange       = errors.New("row index out of range")
	ErrSchemaMisaligned    = errors.New("row info length does not match column schema")
	ErrMissingSelectColumn = errors.New("schema is missing the select-all column")
)

// Column describes one schema entry. Column 0 of a loaded schema is the
// synthetic select-all column and has no data field behind it.
type Column struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Selected bool    `json:"selected"`
}

// Row is one recipient record
type Row struct {
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Sequence int64    `json:"sequence"`
	Info     []string `json:"info"`
	Selected bool     `json:"selected"`
}

// InfoAt returns the info value at index i, or "" when the row has no such field.
func (r Row) InfoAt(i int) string {
	if i < 0 || i >= len(r.Info) {
		return ""
	}
	return r.Info[i]
}

// Table holds the columns and recipient rows of one import
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// InfoWidth returns the number of info fields each row carries under the current schema.
func (t *Table) InfoWidth() int {
	n := len(t.Columns) - 1 - FixedFields
	if n < 0 {
		return 0
	}
	return n
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// SelectedCount returns how many rows are marked for the next dispatch
func (t *Table) SelectedCount() int {
	n := 0
	for _, r := range t.Rows {
		if r.Selected {
			n++
		}
	}
	return n
}

// ToggleRow sets the selection flag of a single row
func (t *Table) ToggleRow(index int, selected bool) error {
	if index < 0 || index >= len(t.Rows) {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	t.Rows[index].Selected = selected
	return nil
}

// ToggleAll sets the selection flag of every row and every column header.
func (t *Table) ToggleAll(selected bool) {
	for i := range t.Rows {
		t.Rows[i].Selected = selected
	}
	for i := range t.Columns {
		t.Columns[i].Selected = selected
	}
}

// Validate checks the structural alignment invariant: every row's info tail
// matches the schema width, and a non-empty schema starts with the select column.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		if len(t.Rows) > 0 {
			return ErrMissingSelectColumn
		}
		return nil
	}
	if len(t.Columns) < 1+FixedFields {
		return ErrMissingSelectColumn
	}
	want := t.InfoWidth()
	for i, r := range t.Rows {
		if len(r.Info) != want {
			return fmt.Errorf("%w: row %d has %d info fields, schema has %d", ErrSchemaMisaligned, i, len(r.Info), want)
		}
	}
	return nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]Column(nil), t.Columns...),
	}
	if t.Rows != nil {
		out.Rows = make([]Row, len(t.Rows))
	}
	for i, r := range t.Rows {
		if r.Info != nil {
			r.Info = append(make([]string, 0, len(r.Info)), r.Info...)
		}
		out.Rows[i] = r
	}
	return out
}

// WithRows returns a table sharing this table's schema with the given rows
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{
		Columns: append([]Column(nil), t.Columns...),
		Rows:    rows,
	}
}
