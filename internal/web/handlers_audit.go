package web

import (
	"net/http"

	"github.com/JonMunkholm/datatable/internal/core"
)

// defaultActivityLimit is the page size of GET /api/activity.
const defaultActivityLimit = 50

// ActivityResponse lists activity entries, newest first.
type ActivityResponse struct {
	Entries []core.AuditEntry `json:"entries"`
	Count   int               `json:"count"`
}

// handleActivity returns recent activity entries.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultActivityLimit)
	entries := s.service.Activity(limit)

	writeJSON(w, ActivityResponse{Entries: entries, Count: len(entries)})
}
