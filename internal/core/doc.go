// Package core provides the table state management for the data table service.
//
// This package holds all domain logic independent of any transport. It can be
// used by the web handlers, the CLI or tests without modification.
//
// # Architecture
//
//   - TableStore: the ordered row collection, the sort state and the
//     edit/insert sessions. Every operation is atomic under one mutex.
//   - Service: wraps a TableStore with the data source, CSV export, the print
//     view, CSV import and the activity log.
//   - Dispatch: routes the action vocabulary (insert, edit, duplicate, delete,
//     sort, export, print) to Service methods.
//
// # Sessions
//
// At most one session is active:
//
//	IDLE --BeginEdit--> EDITING --CommitEdit | CancelEdit--> IDLE
//	IDLE --BeginInsert--> INSERTING --CommitInsert | CancelInsert--> IDLE
//
// Beginning a session while another is active fails with [ErrConcurrentEdit].
// A rejected CommitInsert ([ErrBlankRow]) keeps the insert session open.
//
// # Row Identity
//
// Rows carry an explicit ID. A non-empty, unique "id" column value from the
// source is reused; every other row gets a UUID. References passed to
// BeginEdit, DeleteRow and DuplicateRow are row IDs, so they stay valid across
// sorts.
//
// # Sorting
//
// SortBy reorders the collection itself with a stable sort using a collator
// with numeric ordering, so "Row 9" sorts before "Row 10". Sorting the same
// column twice flips the direction.
//
// # Error Handling
//
// Operations return the sentinel errors declared in errors.go. [MapError]
// turns them into user messages with support codes (EDT, ROW, DATA, SRT, IMP,
// REQ).
package core
