package core

import "slices"

// Field is one named cell of a source record.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one source row: an ordered mapping of column name to cell value.
// Order matters only for the first record, where it defines the column order.
type Record []Field

// Get returns the value for name and whether the record carries it.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Row is one committed row of the table collection.
type Row struct {
	ID       string   `json:"id"`
	Cells    []string `json:"cells"`
	Original bool     `json:"original"` // false for rows produced by DuplicateRow
}

// clone returns a deep copy of the row.
func (r Row) clone() Row {
	r.Cells = slices.Clone(r.Cells)
	return r
}

// Values returns the row as a column name to value mapping.
func (r Row) Values(columns []string) map[string]string {
	m := make(map[string]string, len(columns))
	for i, col := range columns {
		if i < len(r.Cells) {
			m[col] = r.Cells[i]
		}
	}
	return m
}

// SortState is the column index and direction of the last sort.
// Column is -1 while the table is unsorted.
type SortState struct {
	Column    int  `json:"column"`
	Ascending bool `json:"ascending"`
}

// Sorted reports whether a sort has been applied since the last load.
func (s SortState) Sorted() bool {
	return s.Column >= 0
}

// Dir returns "asc" or "desc", or "" while unsorted.
func (s SortState) Dir() string {
	switch {
	case !s.Sorted():
		return ""
	case s.Ascending:
		return "asc"
	default:
		return "desc"
	}
}

var unsorted = SortState{Column: -1, Ascending: true}

// SessionMode identifies which session, if any, is active.
type SessionMode string

const (
	ModeIdle      SessionMode = "idle"
	ModeEditing   SessionMode = "editing"
	ModeInserting SessionMode = "inserting"
)

// SessionState describes the active edit or insert session.
type SessionState struct {
	Mode  SessionMode `json:"mode"`
	RowID string      `json:"rowId,omitempty"` // set while editing
	Draft []string    `json:"draft,omitempty"` // edit snapshot or insert draft
}

// Snapshot is a read-only projection of the table for export and print.
type Snapshot struct {
	Columns []string  `json:"columns"`
	Rows    []Row     `json:"rows"`
	Sort    SortState `json:"sort"`
}

// Records returns the rows as ordered cell slices, header excluded.
func (s Snapshot) Records() [][]string {
	out := make([][]string, len(s.Rows))
	for i, row := range s.Rows {
		out[i] = row.Cells
	}
	return out
}
