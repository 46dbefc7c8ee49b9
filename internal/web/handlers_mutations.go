package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleBeginInsert opens an insert session.
func (s *Server) handleBeginInsert(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	draft, err := s.service.BeginInsert(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, SessionResponse{Draft: draft, Session: s.service.Session()})
}

// handleCommitInsert appends the drafted row.
func (s *Server) handleCommitInsert(w http.ResponseWriter, r *http.Request) {
	var req valuesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	row, err := s.service.CommitInsert(ctx, req.Values)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSONStatus(w, http.StatusCreated, row)
}

// handleCancelInsert discards the insert session.
func (s *Server) handleCancelInsert(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	s.service.CancelInsert(ctx)
	writeJSON(w, SessionResponse{Session: s.service.Session()})
}

// handleBeginEdit opens an edit session over the row in the path.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	rowID := chi.URLParam(r, "rowID")

	ctx := WithRequestMetadata(r.Context(), r)
	row, err := s.service.BeginEdit(ctx, rowID)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, SessionResponse{Row: &row, Session: s.service.Session()})
}

// handleCommitEdit writes the edited values.
func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	var req valuesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.CommitEdit(ctx, req.Values)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, result)
}

// handleCancelEdit restores the edited row.
func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	s.service.CancelEdit(ctx)
	writeJSON(w, SessionResponse{Session: s.service.Session()})
}

// handleDeleteRow removes the row in the path. Unknown rows are not an error.
func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	s.service.DeleteRow(ctx, chi.URLParam(r, "rowID"))
	w.WriteHeader(http.StatusNoContent)
}

// handleDuplicateRow copies the row in the path right after itself.
func (s *Server) handleDuplicateRow(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	row, err := s.service.DuplicateRow(ctx, chi.URLParam(r, "rowID"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSONStatus(w, http.StatusCreated, row)
}
