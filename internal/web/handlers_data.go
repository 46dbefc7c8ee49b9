package web

import (
	"bytes"
	"fmt"
	"net/http"
)

// handleExport downloads the table as separator-joined text.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	// Render fully before writing headers so failures still get an error status
	var buf bytes.Buffer
	if err := s.service.ExportCSV(ctx, &buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.Export.FileName))
	w.Write(buf.Bytes())
}

// handlePrint serves the printable HTML document.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	var buf bytes.Buffer
	if err := s.service.Print(ctx, &buf); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
