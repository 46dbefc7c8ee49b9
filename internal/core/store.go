package core

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// idColumn is the source column whose values are reused as row identities.
const idColumn = "id"

// TableStore owns the ordered row collection and the edit/insert sessions.
//
// Every operation runs to completion under mu, so each call is atomic with
// respect to every other call. At most one of edit and insert is non-nil.
type TableStore struct {
	mu       sync.Mutex
	columns  []string
	rows     []Row
	sort     SortState
	collator *collate.Collator
	edit     *editSession
	insert   *insertSession
	newID    func() string
}

type editSession struct {
	rowID    string
	snapshot []string
}

type insertSession struct {
	draft []string
}

// StoreOption configures a TableStore.
type StoreOption func(*TableStore)

// WithLocale sets the collation language used by SortBy.
func WithLocale(tag language.Tag) StoreOption {
	return func(t *TableStore) {
		t.collator = collate.New(tag, collate.Numeric)
	}
}

// WithIDGenerator replaces the UUID generator used for new row identities.
func WithIDGenerator(fn func() string) StoreOption {
	return func(t *TableStore) {
		t.newID = fn
	}
}

// NewTableStore creates an empty table with no columns.
func NewTableStore(opts ...StoreOption) *TableStore {
	t := &TableStore{
		sort:     unsorted,
		collator: collate.New(language.Und, collate.Numeric),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type loadOptions struct {
	requireRows bool
}

// LoadOption configures a Load call.
type LoadOption func(*loadOptions)

// RequireRows makes Load fail with ErrEmptyData on empty input.
func RequireRows() LoadOption {
	return func(o *loadOptions) { o.requireRows = true }
}

// Load replaces the collection with rows. Columns come from the first record;
// every record is projected onto them. Sort state and sessions are reset.
func (t *TableStore) Load(rows []Record, opts ...LoadOption) error {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	if len(rows) == 0 {
		if o.requireRows {
			return ErrEmptyData
		}
		t.mu.Lock()
		t.columns, t.rows = nil, nil
		t.reset()
		t.mu.Unlock()
		return nil
	}

	columns := uniqueNames(rows[0].Names())
	if len(columns) == 0 {
		return ErrEmptyData
	}
	idIdx := slices.Index(columns, idColumn)

	built := make([]Row, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, rec := range rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j], _ = rec.Get(col)
		}
		id := ""
		if idIdx >= 0 {
			id = strings.TrimSpace(cells[idIdx])
		}
		for id == "" || seen[id] {
			id = t.newID()
		}
		seen[id] = true
		built[i] = Row{ID: id, Cells: cells, Original: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.columns, t.rows = columns, built
	t.reset()
	return nil
}

func (t *TableStore) reset() {
	t.sort = unsorted
	t.edit, t.insert = nil, nil
}

// BeginInsert opens an insert session seeded with one blank value per column
// and returns the draft.
func (t *TableStore) BeginInsert() ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy() {
		return nil, ErrConcurrentEdit
	}
	t.insert = &insertSession{draft: make([]string, len(t.columns))}
	return slices.Clone(t.insert.draft), nil
}

// CommitInsert appends a row built from values in column order.
// A row whose cells are all blank is rejected and the session stays open.
func (t *TableStore) CommitInsert(values map[string]string) (Row, error) {
	row, _, err := t.commitInsert(values)
	return row, err
}

// commitInsert also returns the columns the row was committed under.
func (t *TableStore) commitInsert(values map[string]string) (Row, []string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.insert == nil {
		return Row{}, nil, ErrNoSession
	}
	cells := t.merge(t.insert.draft, values)
	if isBlank(cells) {
		return Row{}, nil, ErrBlankRow
	}

	row := Row{ID: t.uniqueID(), Cells: cells, Original: true}
	t.rows = append(t.rows, row)
	t.insert = nil
	return row.clone(), slices.Clone(t.columns), nil
}

// CancelInsert discards the insert session, if any.
func (t *TableStore) CancelInsert() {
	t.mu.Lock()
	t.insert = nil
	t.mu.Unlock()
}

// BeginEdit opens an edit session over the row identified by rowRef and
// returns the row as it was when the session started.
func (t *TableStore) BeginEdit(rowRef string) (Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy() {
		return Row{}, ErrConcurrentEdit
	}
	idx := t.indexOf(rowRef)
	if idx < 0 {
		return Row{}, ErrRowNotFound
	}
	t.edit = &editSession{
		rowID:    rowRef,
		snapshot: slices.Clone(t.rows[idx].Cells),
	}
	return t.rows[idx].clone(), nil
}

// EditResult is the outcome of a committed edit. Columns is the column set
// Row and Previous were read under.
type EditResult struct {
	Row      Row      `json:"row"`
	Previous []string `json:"previous"`
	Columns  []string `json:"-"`
}

// CommitEdit overwrites the edited row with values. Blank cells are allowed;
// columns missing from values keep their current value.
func (t *TableStore) CommitEdit(values map[string]string) (EditResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.edit == nil {
		return EditResult{}, ErrNoSession
	}
	session := t.edit
	t.edit = nil

	idx := t.indexOf(session.rowID)
	if idx < 0 {
		return EditResult{}, ErrRowNotFound
	}
	previous := t.rows[idx].Cells
	t.rows[idx].Cells = t.merge(previous, values)
	return EditResult{
		Row:      t.rows[idx].clone(),
		Previous: slices.Clone(previous),
		Columns:  slices.Clone(t.columns),
	}, nil
}

// CancelEdit restores the edited row from its snapshot. No-op when idle.
func (t *TableStore) CancelEdit() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.edit == nil {
		return
	}
	if idx := t.indexOf(t.edit.rowID); idx >= 0 {
		t.rows[idx].Cells = slices.Clone(t.edit.snapshot)
	}
	t.edit = nil
}

// DeleteRow removes the row identified by rowRef. Unknown references are
// ignored and reported through the boolean.
func (t *TableStore) DeleteRow(rowRef string) (Row, bool) {
	removed, _, ok := t.deleteRow(rowRef)
	return removed, ok
}

func (t *TableStore) deleteRow(rowRef string) (Row, []string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(rowRef)
	if idx < 0 {
		return Row{}, nil, false
	}
	removed := t.rows[idx]
	t.rows = slices.Delete(t.rows, idx, idx+1)
	if t.edit != nil && t.edit.rowID == rowRef {
		t.edit = nil
	}
	return removed, slices.Clone(t.columns), true
}

// DuplicateRow inserts a deep copy of the row right after it. Only original
// rows can be duplicated; the copy itself is not original.
func (t *TableStore) DuplicateRow(rowRef string) (Row, error) {
	dup, _, err := t.duplicateRow(rowRef)
	return dup, err
}

func (t *TableStore) duplicateRow(rowRef string) (Row, []string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(rowRef)
	if idx < 0 || !t.rows[idx].Original {
		return Row{}, nil, ErrRowNotFound
	}
	dup := t.rows[idx].clone()
	dup.ID = t.uniqueID()
	dup.Original = false
	t.rows = slices.Insert(t.rows, idx+1, dup)
	return dup.clone(), slices.Clone(t.columns), nil
}

// SortBy stably reorders the collection by the text of column. Sorting the
// same column again flips the direction; a new column starts ascending.
func (t *TableStore) SortBy(column int) (SortState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if column < 0 || column >= len(t.columns) {
		return t.sort, ErrColumnOutOfRange
	}
	ascending := true
	if t.sort.Column == column {
		ascending = !t.sort.Ascending
	}

	slices.SortStableFunc(t.rows, func(a, b Row) int {
		c := t.collator.CompareString(
			strings.TrimSpace(a.Cells[column]),
			strings.TrimSpace(b.Cells[column]),
		)
		if !ascending {
			return -c
		}
		return c
	})
	t.sort = SortState{Column: column, Ascending: ascending}
	return t.sort, nil
}

// Snapshot returns a deep copy of the columns, rows and sort state.
func (t *TableStore) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([]Row, len(t.rows))
	for i, row := range t.rows {
		rows[i] = row.clone()
	}
	return Snapshot{
		Columns: slices.Clone(t.columns),
		Rows:    rows,
		Sort:    t.sort,
	}
}

// Session reports the active session.
func (t *TableStore) Session() SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.edit != nil:
		return SessionState{Mode: ModeEditing, RowID: t.edit.rowID, Draft: slices.Clone(t.edit.snapshot)}
	case t.insert != nil:
		return SessionState{Mode: ModeInserting, Draft: slices.Clone(t.insert.draft)}
	default:
		return SessionState{Mode: ModeIdle}
	}
}

// Row returns a copy of the row identified by rowRef.
func (t *TableStore) Row(rowRef string) (Row, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.indexOf(rowRef)
	if idx < 0 {
		return Row{}, false
	}
	return t.rows[idx].clone(), true
}

// Columns returns the column names in display order.
func (t *TableStore) Columns() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.columns)
}

// Len returns the number of committed rows.
func (t *TableStore) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *TableStore) busy() bool {
	return t.edit != nil || t.insert != nil
}

func (t *TableStore) indexOf(rowRef string) int {
	if rowRef == "" {
		return -1
	}
	return slices.IndexFunc(t.rows, func(r Row) bool { return r.ID == rowRef })
}

// uniqueID returns a generated identity not carried by any current row.
func (t *TableStore) uniqueID() string {
	for {
		id := t.newID()
		if t.indexOf(id) < 0 {
			return id
		}
	}
}

// merge builds a cell slice in column order, taking trimmed values where
// present and base values otherwise.
func (t *TableStore) merge(base []string, values map[string]string) []string {
	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		if v, ok := values[col]; ok {
			cells[i] = strings.TrimSpace(v)
		} else if i < len(base) {
			cells[i] = base[i]
		}
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
