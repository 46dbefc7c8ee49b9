package web

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/JonMunkholm/datatable/internal/core"
)

// handleImport appends the rows of an uploaded CSV. The file is either the
// multipart field "file" or the raw request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Export.MaxImportSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			s.respondError(w, r, err, importStatus(err))
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: no file provided")
			return
		}
		defer file.Close()
		body = file
	}

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.ImportCSV(ctx, body)
	if err != nil {
		s.respondError(w, r, err, importStatus(err))
		return
	}

	writeJSON(w, result)
}

// importStatus maps import failures: size limits are 413, known table
// errors use statusFor, and unreadable files are 422.
func importStatus(err error) int {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	if status := statusFor(err); status != http.StatusInternalServerError {
		return status
	}
	return http.StatusUnprocessableEntity
}

// handleReload re-runs the initial load from the configured data source.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	if err := s.service.LoadFromSource(ctx); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, core.ErrEmptyData) {
			status = http.StatusUnprocessableEntity
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, map[string]any{
		"rows":    s.service.Store().Len(),
		"columns": s.service.Store().Columns(),
	})
}
