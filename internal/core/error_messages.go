// Package core provides the table state management for the data table service.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Edit Session Errors (EDT001-EDT099)
//
//	EDT001 - Concurrent edit: Another row is already being edited or inserted
//	         Action: Save or cancel the open row first
//	         Error: ErrConcurrentEdit
//
//	EDT002 - No session: There is no row being edited or inserted
//	         Action: Start an edit or insert first
//	         Error: ErrNoSession
//
//	EDT003 - Blank row: A new row needs at least one value
//	         Action: Fill in at least one cell or cancel the insert
//	         Error: ErrBlankRow
//
// # Row Errors (ROW001-ROW099)
//
//	ROW001 - Row not found: The row no longer exists or cannot be duplicated
//	         Action: Refresh the table and try again
//	         Error: ErrRowNotFound
//
// # Data Errors (DATA001-DATA099)
//
//	DATA001 - Empty data: The data source has no rows
//	          Action: Check the data source contains at least one record
//	          Error: ErrEmptyData
//
//	DATA002 - Invalid JSON: The data source is not a JSON array of objects
//	          Action: Fix the data source document
//	          Patterns: "invalid json"
//
//	DATA003 - Source unavailable: The data source could not be read
//	          Action: Check DATA_SOURCE and try again
//	          Patterns: "data source"
//
// # Sort Errors (SRT001-SRT099)
//
//	SRT001 - Column out of range: The column to sort by does not exist
//	         Action: Pick one of the table's columns
//	         Error: ErrColumnOutOfRange
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Column mismatch: The file's columns do not match the table
//	         Action: Use a file with the same number of columns as the table
//	         Error: ErrColumnMismatch
//
//	IMP002 - Invalid CSV: The file is not a valid CSV
//	         Action: Ensure the file is comma-separated
//	         Patterns: "invalid csv"
//
//	IMP003 - Empty file: The uploaded file is empty
//	         Action: Upload a CSV file with a header line
//	         Patterns: "empty file"
//
//	IMP004 - File too large: The uploaded file exceeds the size limit
//	         Action: Split the file into smaller files
//	         Patterns: "request body too large"
//
//	IMP005 - Import busy: Too many imports are running
//	         Action: Wait a moment and upload again
//	         Error: ErrTooManyImports
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Unknown action: The requested action is not supported
//	         Action: Use insert, edit, duplicate, delete, sort, export or print
//	         Error: ErrUnknownAction
//
//	REQ002 - Request timeout: The request timed out
//	         Action: Please try again
//	         Patterns: "context deadline exceeded"
//
//	REQ003 - Malformed request: The request body or parameters could not be read
//	         Action: Check the request format
//	         Patterns: "invalid request"
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Sentinel errors are matched with errors.Is first. Remaining errors are
// matched case-insensitively against the patterns; the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// sentinelMessages maps table operation errors to user messages.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrConcurrentEdit, UserMessage{
		Message: "Another row is already being edited or inserted",
		Action:  "Save or cancel the open row first",
		Code:    "EDT001",
	}},
	{ErrNoSession, UserMessage{
		Message: "There is no row being edited or inserted",
		Action:  "Start an edit or insert first",
		Code:    "EDT002",
	}},
	{ErrBlankRow, UserMessage{
		Message: "A blank row cannot be inserted",
		Action:  "Fill in at least one cell or cancel the insert",
		Code:    "EDT003",
	}},
	{ErrRowNotFound, UserMessage{
		Message: "Row not found",
		Action:  "Refresh the table and try again",
		Code:    "ROW001",
	}},
	{ErrEmptyData, UserMessage{
		Message: "The data source has no rows",
		Action:  "Check the data source contains at least one record",
		Code:    "DATA001",
	}},
	{ErrColumnOutOfRange, UserMessage{
		Message: "The column does not exist",
		Action:  "Pick one of the table's columns",
		Code:    "SRT001",
	}},
	{ErrColumnMismatch, UserMessage{
		Message: "The file's columns do not match the table",
		Action:  "Use a file with the same number of columns as the table",
		Code:    "IMP001",
	}},
	{ErrTooManyImports, UserMessage{
		Message: "Too many imports are running",
		Action:  "Wait a moment and upload again",
		Code:    "IMP005",
	}},
	{ErrUnknownAction, UserMessage{
		Message: "Unknown action",
		Action:  "Use insert, edit, duplicate, delete, sort, export or print",
		Code:    "REQ001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	{
		pattern: "invalid json",
		msg: UserMessage{
			Message: "The data source is not a JSON array of objects",
			Action:  "Fix the data source document",
			Code:    "DATA002",
		},
	},
	{
		pattern: "data source",
		msg: UserMessage{
			Message: "The data source could not be read",
			Action:  "Check DATA_SOURCE and try again",
			Code:    "DATA003",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The uploaded file exceeds the size limit",
			Action:  "Split the file into smaller files",
			Code:    "IMP004",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated",
			Code:    "IMP002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a CSV file with a header line",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request format",
			Code:    "REQ003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("commit: %w", ErrBlankRow))
//	// msg.Code == "EDT003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
