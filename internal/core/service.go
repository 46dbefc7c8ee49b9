package core

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/logging"
)

// Service wraps a TableStore with data loading, export and the activity log.
// Every method that changes the table records an activity entry and logs it.
type Service struct {
	store   *TableStore
	audit   *AuditLog
	imports *ImportLimiter
	fetcher Fetcher

	source      string
	requireRows bool
	loadTimeout time.Duration
	separator   string
	printTitle  string
}

// NewService creates a Service with an empty table configured from cfg.
func NewService(cfg *config.Config, opts ...StoreOption) *Service {
	opts = append([]StoreOption{WithLocale(cfg.Data.LocaleTag())}, opts...)
	return &Service{
		store:       NewTableStore(opts...),
		audit:       NewAuditLog(cfg.History.Limit),
		imports:     NewImportLimiter(cfg.Export.MaxConcurrentImports, cfg.Export.ImportWait),
		fetcher:     Fetcher{Client: &http.Client{Timeout: cfg.Data.LoadTimeout}},
		source:      cfg.Data.Source,
		requireRows: cfg.Data.RequireRows,
		loadTimeout: cfg.Data.LoadTimeout,
		separator:   cfg.Export.Separator,
		printTitle:  cfg.Export.PrintTitle,
	}
}

// Store returns the underlying table store.
func (s *Service) Store() *TableStore {
	return s.store
}

// Activity returns up to limit activity entries, newest first.
func (s *Service) Activity(limit int) []AuditEntry {
	return s.audit.Recent(limit)
}

func (s *Service) record(ctx context.Context, entry AuditEntry) {
	meta := RequestMetaFromContext(ctx)
	entry.IPAddress = meta.IPAddress
	entry.UserAgent = meta.UserAgent
	s.audit.Append(entry)
}

// LoadFromSource fetches the configured data source and loads it. On failure
// the error is logged and the table keeps its current contents, which is the
// empty table at startup.
func (s *Service) LoadFromSource(ctx context.Context) error {
	logger := logging.WithFields(ctx, "source", s.source)

	ctx, cancel := context.WithTimeout(ctx, s.loadTimeout)
	defer cancel()

	records, err := s.fetcher.Fetch(ctx, s.source)
	if err == nil {
		err = s.Load(ctx, records)
	}
	if err != nil {
		logger.Error("failed to load table data", "error", err)
		return err
	}

	logger.Info("table data loaded", "rows", s.store.Len(), "columns", len(s.store.Columns()))
	return nil
}

// Load replaces the table contents with records.
func (s *Service) Load(ctx context.Context, records []Record) error {
	var opts []LoadOption
	if s.requireRows {
		opts = append(opts, RequireRows())
	}
	if err := s.store.Load(records, opts...); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s.record(ctx, AuditEntry{Action: ActionTableLoad, RowsAffected: len(records)})
	return nil
}

// BeginInsert opens an insert session.
func (s *Service) BeginInsert(ctx context.Context) ([]string, error) {
	draft, err := s.store.BeginInsert()
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug("insert session started")
	return draft, nil
}

// CommitInsert appends the drafted row.
func (s *Service) CommitInsert(ctx context.Context, values map[string]string) (Row, error) {
	row, columns, err := s.store.commitInsert(values)
	if err != nil {
		return Row{}, err
	}
	s.record(ctx, AuditEntry{
		Action:       ActionRowInsert,
		RowID:        row.ID,
		NewValues:    row.Values(columns),
		RowsAffected: 1,
	})
	logging.WithFields(ctx, "row_id", row.ID).Info("row inserted")
	return row, nil
}

// CancelInsert discards the insert session.
func (s *Service) CancelInsert(ctx context.Context) {
	s.store.CancelInsert()
	logging.FromContext(ctx).Debug("insert session cancelled")
}

// BeginEdit opens an edit session over rowRef.
func (s *Service) BeginEdit(ctx context.Context, rowRef string) (Row, error) {
	row, err := s.store.BeginEdit(rowRef)
	if err != nil {
		return Row{}, err
	}
	logging.WithFields(ctx, "row_id", rowRef).Debug("edit session started")
	return row, nil
}

// CommitEdit writes the edited values.
func (s *Service) CommitEdit(ctx context.Context, values map[string]string) (EditResult, error) {
	result, err := s.store.CommitEdit(values)
	if err != nil {
		return EditResult{}, err
	}
	s.record(ctx, AuditEntry{
		Action:       ActionRowEdit,
		RowID:        result.Row.ID,
		OldValues:    Row{Cells: result.Previous}.Values(result.Columns),
		NewValues:    result.Row.Values(result.Columns),
		RowsAffected: 1,
	})
	logging.WithFields(ctx, "row_id", result.Row.ID).Info("row edited")
	return result, nil
}

// CancelEdit restores the edited row.
func (s *Service) CancelEdit(ctx context.Context) {
	s.store.CancelEdit()
	logging.FromContext(ctx).Debug("edit session cancelled")
}

// DeleteRow removes rowRef and reports whether it existed.
func (s *Service) DeleteRow(ctx context.Context, rowRef string) bool {
	row, columns, ok := s.store.deleteRow(rowRef)
	if !ok {
		logging.WithFields(ctx, "row_id", rowRef).Debug("delete ignored: row not found")
		return false
	}
	s.record(ctx, AuditEntry{
		Action:       ActionRowDelete,
		RowID:        row.ID,
		OldValues:    row.Values(columns),
		RowsAffected: 1,
	})
	logging.WithFields(ctx, "row_id", row.ID).Info("row deleted")
	return true
}

// DuplicateRow copies rowRef right after itself.
func (s *Service) DuplicateRow(ctx context.Context, rowRef string) (Row, error) {
	dup, columns, err := s.store.duplicateRow(rowRef)
	if err != nil {
		return Row{}, err
	}
	s.record(ctx, AuditEntry{
		Action:       ActionRowDuplicate,
		RowID:        dup.ID,
		NewValues:    dup.Values(columns),
		RowsAffected: 1,
		Reason:       "duplicate of " + rowRef,
	})
	logging.WithFields(ctx, "row_id", rowRef, "copy_id", dup.ID).Info("row duplicated")
	return dup, nil
}

// SortBy sorts the table by column.
func (s *Service) SortBy(ctx context.Context, column int) (SortState, error) {
	state, err := s.store.SortBy(column)
	if err != nil {
		return state, err
	}
	s.record(ctx, AuditEntry{Action: ActionTableSort, Reason: fmt.Sprintf("column %d %s", column, state.Dir())})
	logging.WithFields(ctx, "column", column, "dir", state.Dir()).Debug("table sorted")
	return state, nil
}

// ImportCSV appends the rows of a comma-separated file. Concurrent imports
// are bounded by the import limiter.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (ImportResult, error) {
	if err := s.imports.Acquire(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("import: %w", err)
	}
	defer s.imports.Release()

	result, err := s.store.ImportCSV(r)
	if err != nil {
		return result, fmt.Errorf("import: %w", err)
	}
	s.record(ctx, AuditEntry{
		Action:       ActionTableImport,
		RowsAffected: result.Imported,
		Reason:       fmt.Sprintf("%d rows skipped", result.Skipped),
	})
	logging.WithFields(ctx, "imported", result.Imported, "skipped", result.Skipped).Info("csv imported")
	return result, nil
}

// ImportStatus reports how many import slots are in use.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.imports.Status()
}

// WaitForImports blocks until in-flight imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.imports.WaitForDrain(ctx)
}

// Snapshot returns the current read-only projection.
func (s *Service) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// Session returns the active session state.
func (s *Service) Session() SessionState {
	return s.store.Session()
}

// ExportCSV writes the current snapshot as separator-joined text.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	snap := s.store.Snapshot()
	if err := WriteCSV(w, snap, s.separator); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	s.record(ctx, AuditEntry{Action: ActionTableExport, RowsAffected: len(snap.Rows)})
	return nil
}

// Print writes the printable HTML document of the current snapshot.
func (s *Service) Print(ctx context.Context, w io.Writer) error {
	snap := s.store.Snapshot()
	if err := RenderPrintHTML(w, snap, s.printTitle); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	s.record(ctx, AuditEntry{Action: ActionTablePrint, RowsAffected: len(snap.Rows)})
	return nil
}
