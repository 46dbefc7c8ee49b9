package core

import "errors"

// Table operation errors. All of them leave the collection unchanged.
var (
	ErrConcurrentEdit   = errors.New("edit session already active")
	ErrRowNotFound      = errors.New("row not found")
	ErrBlankRow         = errors.New("blank row rejected")
	ErrEmptyData        = errors.New("empty data: no rows to derive columns from")
	ErrNoSession        = errors.New("no active session")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrUnknownAction    = errors.New("unknown action")
	ErrColumnMismatch   = errors.New("column count mismatch")
)
