package core

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionTableLoad    AuditAction = "table_load"
	ActionTableSort    AuditAction = "table_sort"
	ActionTableImport  AuditAction = "table_import"
	ActionTableExport  AuditAction = "table_export"
	ActionTablePrint   AuditAction = "table_print"
	ActionRowInsert    AuditAction = "row_insert"
	ActionRowEdit      AuditAction = "row_edit"
	ActionRowDelete    AuditAction = "row_delete"
	ActionRowDuplicate AuditAction = "row_duplicate"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry represents a single activity log entry.
type AuditEntry struct {
	ID           string            `json:"id"`
	Action       AuditAction       `json:"action"`
	Severity     AuditSeverity     `json:"severity"`
	RowID        string            `json:"rowId,omitempty"`
	OldValues    map[string]string `json:"oldValues,omitempty"`
	NewValues    map[string]string `json:"newValues,omitempty"`
	RowsAffected int               `json:"rowsAffected,omitempty"`
	IPAddress    string            `json:"ipAddress,omitempty"`
	UserAgent    string            `json:"userAgent,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionRowDelete, ActionTableImport:
		return SeverityHigh
	case ActionTableLoad:
		return SeverityCritical
	case ActionTableSort, ActionTableExport, ActionTablePrint:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// DefaultAuditLimit is the number of entries an AuditLog keeps by default.
const DefaultAuditLimit = 500

// AuditLog is a bounded in-memory activity log. Oldest entries are dropped
// once the limit is reached.
type AuditLog struct {
	mu      sync.RWMutex
	limit   int
	entries []AuditEntry
	now     func() time.Time
}

// NewAuditLog creates an activity log keeping at most limit entries.
func NewAuditLog(limit int) *AuditLog {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	return &AuditLog{limit: limit, now: time.Now}
}

// Append stamps the entry with an ID, severity and time and stores it.
func (l *AuditLog) Append(entry AuditEntry) AuditEntry {
	entry.ID = uuid.NewString()
	entry.Severity = determineSeverity(entry.Action)
	entry.CreatedAt = l.now().UTC()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = slices.Delete(l.entries, 0, over)
	}
	return entry
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (l *AuditLog) Recent(limit int) []AuditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]AuditEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of stored entries.
func (l *AuditLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
