package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"rows":    s.service.Store().Len(),
		"imports": s.service.ImportStatus(),
	})
}

// handleTable returns the snapshot and the active session.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, TableResponse{
		Snapshot: s.service.Snapshot(),
		Session:  s.service.Session(),
	})
}

// handleAction dispatches one entry of the action vocabulary.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
		RowRef string `json:"rowRef"`
		Column int    `json:"column"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := core.ParseAction(req.Action)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.Dispatch(ctx, core.Command{
		Action: action,
		RowRef: req.RowRef,
		Column: req.Column,
	})
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, result)
}

// handleSort sorts the table by the column index in the path.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	column, err := strconv.Atoi(chi.URLParam(r, "column"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request parameter: column")
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	state, err := s.service.SortBy(ctx, column)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, state)
}
