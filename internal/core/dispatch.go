package core

import (
	"context"
	"fmt"
	"strings"
)

// Action is one entry of the user-facing action vocabulary.
type Action string

const (
	ActionInsert    Action = "insert"
	ActionDelete    Action = "delete"
	ActionEdit      Action = "edit"
	ActionDuplicate Action = "duplicate"
	ActionSort      Action = "sort"
	ActionExport    Action = "export"
	ActionPrint     Action = "print"
)

// Actions lists the supported actions in menu order.
var Actions = []Action{
	ActionInsert, ActionEdit, ActionDuplicate, ActionDelete,
	ActionSort, ActionExport, ActionPrint,
}

// ParseAction normalises s into a known Action.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Command is a typed request routed by Dispatch.
type Command struct {
	Action Action `json:"action"`
	RowRef string `json:"rowRef,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Result is the outcome of a dispatched command. Only the fields relevant to
// the action are set.
type Result struct {
	Action   Action       `json:"action"`
	Row      *Row         `json:"row,omitempty"`
	Draft    []string     `json:"draft,omitempty"`
	Deleted  *bool        `json:"deleted,omitempty"`
	Sort     *SortState   `json:"sort,omitempty"`
	Snapshot *Snapshot    `json:"snapshot,omitempty"`
	Session  SessionState `json:"session"`
}

// Dispatch routes cmd to the matching table operation. Insert and edit open
// sessions; commit and cancel have their own methods. Export and print are
// pure reads returning the snapshot.
func (s *Service) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	res := Result{Action: cmd.Action}

	switch cmd.Action {
	case ActionInsert:
		draft, err := s.BeginInsert(ctx)
		if err != nil {
			return res, err
		}
		res.Draft = draft

	case ActionEdit:
		row, err := s.BeginEdit(ctx, cmd.RowRef)
		if err != nil {
			return res, err
		}
		res.Row = &row

	case ActionDelete:
		deleted := s.DeleteRow(ctx, cmd.RowRef)
		res.Deleted = &deleted

	case ActionDuplicate:
		row, err := s.DuplicateRow(ctx, cmd.RowRef)
		if err != nil {
			return res, err
		}
		res.Row = &row

	case ActionSort:
		state, err := s.SortBy(ctx, cmd.Column)
		if err != nil {
			return res, err
		}
		res.Sort = &state

	case ActionExport, ActionPrint:
		snap := s.Snapshot()
		res.Snapshot = &snap

	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}

	res.Session = s.Session()
	return res, nil
}
