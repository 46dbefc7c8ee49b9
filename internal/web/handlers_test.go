package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/datatable/internal/config"
	"github.com/JonMunkholm/datatable/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	server  *Server
	service *core.Service
}

func newTestEnv(t *testing.T, env map[string]string) *testEnv {
	t.Helper()

	merged := map[string]string{"RATE_LIMIT_ENABLED": "false"}
	for k, v := range env {
		merged[k] = v
	}
	cfg, err := config.LoadWith(func(key string) string { return merged[key] })
	require.NoError(t, err)

	n := 0
	svc := core.NewService(cfg, core.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("r%d", n)
	}))
	require.NoError(t, svc.Load(context.Background(), []core.Record{
		{{Name: "name", Value: "Row 10"}, {Name: "qty", Value: "3"}},
		{{Name: "name", Value: "Row 9"}, {Name: "qty", Value: "12"}},
	}))

	srv := NewServer(svc, cfg)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return &testEnv{server: srv, service: svc}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestGetTable(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/table", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[TableResponse](t, rec)
	assert.Equal(t, []string{"name", "qty"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "r1", got.Rows[0].ID)
	assert.Equal(t, core.ModeIdle, got.Session.Mode)
	assert.False(t, got.Sort.Sorted())
}

func TestInsertFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/insert", "")
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[SessionResponse](t, rec)
	assert.Equal(t, core.ModeInserting, session.Session.Mode)
	assert.Len(t, session.Draft, 2)

	// A second session is refused
	rec = env.do(t, http.MethodPost, "/api/rows/r1/edit", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EDT001", decode[ErrorResponse](t, rec).Code)

	// Blank rows are rejected and the session stays open
	rec = env.do(t, http.MethodPost, "/api/insert/commit", `{"values":{"name":"  "}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "EDT003", decode[ErrorResponse](t, rec).Code)
	assert.Equal(t, core.ModeInserting, env.service.Session().Mode)

	rec = env.do(t, http.MethodPost, "/api/insert/commit", `{"values":{"name":"Row 1"}}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	row := decode[core.Row](t, rec)
	assert.Equal(t, []string{"Row 1", ""}, row.Cells)
	assert.Equal(t, 3, env.service.Store().Len())
	assert.Equal(t, core.ModeIdle, env.service.Session().Mode)
}

func TestInsertCancel(t *testing.T) {
	env := newTestEnv(t, nil)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/insert", "").Code)

	rec := env.do(t, http.MethodPost, "/api/insert/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.ModeIdle, decode[SessionResponse](t, rec).Session.Mode)
	assert.Equal(t, 2, env.service.Store().Len())
}

func TestEditFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/rows/r2/edit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	session := decode[SessionResponse](t, rec)
	require.NotNil(t, session.Row)
	assert.Equal(t, "r2", session.Row.ID)
	assert.Equal(t, core.ModeEditing, session.Session.Mode)

	rec = env.do(t, http.MethodPost, "/api/edit/commit", `{"values":{"qty":""}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[core.EditResult](t, rec)
	assert.Equal(t, []string{"Row 9", ""}, result.Row.Cells)
	assert.Equal(t, []string{"Row 9", "12"}, result.Previous)

	rec = env.do(t, http.MethodPost, "/api/edit/commit", `{"values":{}}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EDT002", decode[ErrorResponse](t, rec).Code)
}

func TestEditCancelRestores(t *testing.T) {
	env := newTestEnv(t, nil)
	before := env.service.Snapshot()

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/rows/r1/edit", "").Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/api/edit/cancel", "").Code)

	assert.Equal(t, before.Rows, env.service.Snapshot().Rows)
}

func TestEditUnknownRow(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodPost, "/api/rows/missing/edit", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ROW001", decode[ErrorResponse](t, rec).Code)
}

func TestDeleteRow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodDelete, "/api/rows/r1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, env.service.Store().Len())

	rec = env.do(t, http.MethodDelete, "/api/rows/bogus", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, env.service.Store().Len())
}

func TestDuplicateRow(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/rows/r1/duplicate", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	dup := decode[core.Row](t, rec)
	assert.False(t, dup.Original)

	snap := env.service.Snapshot()
	require.Len(t, snap.Rows, 3)
	assert.Equal(t, dup.ID, snap.Rows[1].ID)

	rec = env.do(t, http.MethodPost, "/api/rows/"+dup.ID+"/duplicate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSort(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/sort/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[core.SortState](t, rec)
	assert.True(t, state.Ascending)

	snap := env.service.Snapshot()
	assert.Equal(t, "Row 9", snap.Rows[0].Cells[0])
	assert.Equal(t, "Row 10", snap.Rows[1].Cells[0])

	rec = env.do(t, http.MethodPost, "/api/sort/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[core.SortState](t, rec).Ascending)

	rec = env.do(t, http.MethodPost, "/api/sort/7", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "SRT001", decode[ErrorResponse](t, rec).Code)

	rec = env.do(t, http.MethodPost, "/api/sort/name", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "REQ003", decode[ErrorResponse](t, rec).Code)
}

func TestActions(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		check    func(t *testing.T, res core.Result)
	}{
		{
			name:     "insert",
			body:     `{"action":"insert"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, res core.Result) {
				assert.Equal(t, core.ModeInserting, res.Session.Mode)
			},
		},
		{
			name:     "sort numeric column",
			body:     `{"action":"sort","column":1}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, res core.Result) {
				require.NotNil(t, res.Sort)
				assert.Equal(t, 1, res.Sort.Column)
			},
		},
		{
			name:     "delete unknown row",
			body:     `{"action":"delete","rowRef":"zzz"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, res core.Result) {
				require.NotNil(t, res.Deleted)
				assert.False(t, *res.Deleted)
			},
		},
		{
			name:     "print returns snapshot",
			body:     `{"action":"PRINT"}`,
			wantCode: http.StatusOK,
			check: func(t *testing.T, res core.Result) {
				require.NotNil(t, res.Snapshot)
				assert.Len(t, res.Snapshot.Rows, 2)
			},
		},
		{
			name:     "unknown action",
			body:     `{"action":"rename"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "malformed body",
			body:     `{"action":`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			rec := env.do(t, http.MethodPost, "/api/actions", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.check != nil {
				tt.check(t, decode[core.Result](t, rec))
			}
		})
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t, map[string]string{"EXPORT_FILE_NAME": "rows.csv"})
	rec := env.do(t, http.MethodGet, "/api/export", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rows.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "name;qty\nRow 10;3\nRow 9;12\n", rec.Body.String())
}

func TestPrint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/print", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<title>Print Table</title>")
	assert.Contains(t, rec.Body.String(), "Row 10")
}

func TestImport(t *testing.T) {
	t.Run("raw body", func(t *testing.T) {
		env := newTestEnv(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("name,qty\nRow 1,4\nbad\n"))
		req.Header.Set("Content-Type", "text/csv")
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[core.ImportResult](t, rec)
		assert.Equal(t, core.ImportResult{Imported: 1, Skipped: 1}, got)
		assert.Equal(t, 3, env.service.Store().Len())
	})

	t.Run("multipart file", func(t *testing.T) {
		env := newTestEnv(t, nil)

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "rows.csv")
		require.NoError(t, err)
		part.Write([]byte("name,qty\nRow 1,4\nRow 2,5\n"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 2, decode[core.ImportResult](t, rec).Imported)
	})

	t.Run("column mismatch", func(t *testing.T) {
		env := newTestEnv(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("a,b,c\n1,2,3\n"))
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "IMP001", decode[ErrorResponse](t, rec).Code)
	})

	t.Run("too large", func(t *testing.T) {
		env := newTestEnv(t, map[string]string{"IMPORT_MAX_SIZE": "16"})
		req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("name,qty\n"+strings.Repeat("x,1\n", 20)))
		rec := httptest.NewRecorder()
		env.server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","v":"1"}]`), 0o600))

	env := newTestEnv(t, map[string]string{"DATA_SOURCE": path})
	rec := env.do(t, http.MethodPost, "/api/reload", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"id", "v"}, env.service.Store().Columns())

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	rec = env.do(t, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "DATA002", decode[ErrorResponse](t, rec).Code)
	assert.Equal(t, 1, env.service.Store().Len())
}

func TestActivity(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(t, http.MethodDelete, "/api/rows/r1", "")
	env.do(t, http.MethodPost, "/api/sort/0", "")

	rec := env.do(t, http.MethodGet, "/api/activity?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[ActivityResponse](t, rec)
	require.Equal(t, 2, got.Count)
	assert.Equal(t, core.ActionTableSort, got.Entries[0].Action)
	assert.Equal(t, core.ActionRowDelete, got.Entries[1].Action)
	assert.Equal(t, "r1", got.Entries[1].RowID)
	assert.Equal(t, "192.0.2.1", got.Entries[1].IPAddress)
}

func TestAPIKeyRequiredForMutations(t *testing.T) {
	env := newTestEnv(t, map[string]string{"REQUIRE_API_KEY": "true", "API_KEYS": "secret"})

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/table", "").Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/api/insert", "").Code)

	req := httptest.NewRequest(http.MethodPost, "/api/insert", nil)
	req.Header.Set("X-API-Key", "secret")
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"RATE_LIMIT_ENABLED":             "true",
		"RATE_LIMIT_REQUESTS_PER_MINUTE": "2",
	})

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", "").Code)

	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", decode[ErrorResponse](t, rec).Code)
}
