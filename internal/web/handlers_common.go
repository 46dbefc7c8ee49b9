// Package web provides HTTP handlers for the data table service.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/datatable/internal/core"
)

// maxBodySize caps JSON request bodies (1MB).
const maxBodySize = 1 << 20

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// valuesRequest is the body of the commit endpoints.
type valuesRequest struct {
	Values map[string]string `json:"values"`
}

// decodeJSON decodes the request body into v. An empty body leaves v unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// TableResponse is the full table view returned by GET /api/table.
type TableResponse struct {
	core.Snapshot
	Session core.SessionState `json:"session"`
}

// SessionResponse reports the session state after a session operation.
type SessionResponse struct {
	Row     *core.Row         `json:"row,omitempty"`
	Draft   []string          `json:"draft,omitempty"`
	Session core.SessionState `json:"session"`
}
