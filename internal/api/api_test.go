package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/routelens/internal/analysis"
	"github.com/dgallion1/routelens/internal/config"
	"github.com/dgallion1/routelens/internal/pipeline"
)

const testKey = "secret"

const itemRoutes = `import static org.springframework.web.reactive.function.server.RequestPredicates.*;
import static org.springframework.web.reactive.function.server.RouterFunctions.route;
import org.springframework.http.MediaType;

class ItemRoutes {
    Object routes(ItemHandler h) {
        return route(POST("/items").and(contentType(MediaType.APPLICATION_JSON)), h::create);
    }
}
`

func newTestServer(t *testing.T, start bool) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:             testKey,
		WorkerCount:        1,
		MaxQueueSize:       4,
		MaxConcurrentFiles: 2,
		MaxUploadBytes:     1 << 20,
		JobTTL:             time.Hour,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, analysis.New(nil), log)
	if start {
		orch.Start(context.Background())
		t.Cleanup(orch.Stop)
	}
	return NewServer(orch, log, cfg)
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func postJSON(t *testing.T, s *Server, path string, v any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return do(t, s, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

// cursor returns the 0-based position of the third character of needle.
func cursor(t *testing.T, src, needle string) (int, int) {
	t.Helper()
	for i, line := range strings.Split(src, "\n") {
		if c := strings.Index(line, needle); c >= 0 {
			return i, c + 2
		}
	}
	t.Fatalf("%q not found", needle)
	return 0, 0
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuth(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, `Bearer realm="routelens"`, rec.Header().Get("WWW-Authenticate"))

	for _, header := range []string{"Bearer wrong", "Bearer ", "Basic " + testKey, testKey} {
		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		req.Header.Set("Authorization", header)
		rec = httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "bearer "+testKey)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLog(t *testing.T) {
	var logs bytes.Buffer
	cfg := config.Config{APIKey: testKey, WorkerCount: 1, MaxQueueSize: 1, MaxConcurrentFiles: 1, JobTTL: time.Hour}
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	s := NewServer(pipeline.NewOrchestrator(cfg, analysis.New(nil), log), log, cfg)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	reqID := rec.Header().Get("X-Request-Id")
	require.NotEmpty(t, reqID)

	var entries []map[string]any
	dec := json.NewDecoder(&logs)
	for dec.More() {
		var e map[string]any
		require.NoError(t, dec.Decode(&e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "unauthorized", entries[0]["msg"])
	assert.Equal(t, "missing authorization", entries[0]["reason"])
	assert.Equal(t, reqID, entries[0]["request_id"])

	assert.Equal(t, "request", entries[1]["msg"])
	assert.Equal(t, "INFO", entries[1]["level"])
	assert.Equal(t, float64(http.StatusUnauthorized), entries[1]["status"])
	assert.Equal(t, float64(rec.Body.Len()), entries[1]["bytes"])
	assert.Equal(t, reqID, entries[1]["request_id"])
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, false)
	rec, out := postJSON(t, s, "/api/routes", map[string]string{"filename": "ItemRoutes.java", "source": itemRoutes})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	routes := out["routes"].([]any)
	require.Len(t, routes, 1)
	rt := routes[0].(map[string]any)
	assert.Equal(t, "route", rt["kind"])
	assert.Equal(t, "/items", rt["paths"].([]any)[0].(map[string]any)["name"])
	assert.Equal(t, "APPLICATION_JSON", rt["contentTypes"].([]any)[0].(map[string]any)["name"])
	assert.EqualValues(t, 3, out["elements"])
	assert.Empty(t, out["diagnostics"])
}

func TestRoutes_BadInput(t *testing.T) {
	s := newTestServer(t, false)

	rec, _ := postJSON(t, s, "/api/routes", map[string]string{"filename": "routes.kt", "source": "fun main() {}"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/api/routes", strings.NewReader("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHover(t *testing.T) {
	s := newTestServer(t, false)
	line, char := cursor(t, itemRoutes, "APPLICATION_JSON")

	for _, tt := range []struct {
		format string
		want   []string
	}{
		{"markdown", []string{"**Content type:**", "[APPLICATION_JSON](", "`application/json`"}},
		{"html", []string{"<b>Content type:</b>", `<a href="`, "<code>application/json</code>"}},
		{"preview", []string{"<strong>Content type:</strong>", "<code>application/json</code>"}},
	} {
		t.Run(tt.format, func(t *testing.T) {
			rec, out := postJSON(t, s, "/api/hover", map[string]any{
				"filename": "ItemRoutes.java", "source": itemRoutes,
				"line": line, "character": char, "format": tt.format,
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, true, out["found"])
			assert.Equal(t, "contentType", out["kind"])
			content := out["content"].(string)
			for _, w := range tt.want {
				assert.Contains(t, content, w)
			}
		})
	}
}

func TestHover_Misses(t *testing.T) {
	s := newTestServer(t, false)

	_, out := postJSON(t, s, "/api/hover", map[string]any{
		"filename": "ItemRoutes.java", "source": itemRoutes, "line": 0, "character": 0,
	})
	assert.Equal(t, false, out["found"])

	rec, _ := postJSON(t, s, "/api/hover", map[string]any{
		"filename": "ItemRoutes.java", "source": itemRoutes, "line": 99, "character": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = postJSON(t, s, "/api/hover", map[string]any{
		"filename": "ItemRoutes.java", "source": itemRoutes, "format": "pdf",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBatchScan(t *testing.T) {
	s := newTestServer(t, true)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, src := range map[string]string{"ItemRoutes.java": itemRoutes, "notes.txt": "hello"} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(src))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	rec, out := do(t, s, http.MethodPost, "/api/scan/batch", &body, mw.FormDataContentType())
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, out["files"])
	assert.Len(t, out["rejected"], 1)

	jobID := out["job_id"].(string)
	require.Eventually(t, func() bool {
		_, st := do(t, s, http.MethodGet, "/api/scan/"+jobID+"/status", nil, "")
		return st["status"] == string(pipeline.StatusCompleted)
	}, 10*time.Second, 10*time.Millisecond)

	rec, out = do(t, s, http.MethodGet, "/api/scan/"+jobID+"/results", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := out["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "ItemRoutes.java", results[0].(map[string]any)["filename"])
	assert.Len(t, results[0].(map[string]any)["routes"], 1)
}

func TestScanStatus_NotFound(t *testing.T) {
	s := newTestServer(t, false)
	rec, _ := do(t, s, http.MethodGet, "/api/scan/missing/status", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec, _ = do(t, s, http.MethodGet, "/api/scan/missing/results", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanResults_NotDone(t *testing.T) {
	s := newTestServer(t, false)
	job := pipeline.NewJob([]pipeline.File{{Name: "A.java", Data: []byte("class A {}")}})
	require.NoError(t, s.orchestrator.Submit(job))

	rec, _ := do(t, s, http.MethodGet, "/api/scan/"+job.ID+"/results", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, out := do(t, s, http.MethodGet, "/api/stats", nil, "")
	assert.EqualValues(t, 1, out["queue_depth"])
	assert.EqualValues(t, 1, out["jobs_tracked"])
}

func TestMediaTypeDocs(t *testing.T) {
	s := newTestServer(t, false)

	_, out := do(t, s, http.MethodGet, "/api/docs/mediatypes", nil, "")
	assert.Contains(t, out["media_types"], "TEXT_PLAIN")

	rec, out := do(t, s, http.MethodGet, "/api/docs/mediatypes/TEXT_PLAIN?format=html", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, out["content"], "<code>text/plain</code>")

	rec, _ = do(t, s, http.MethodGet, "/api/docs/mediatypes/IMAGE_PNG", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, s, http.MethodGet, "/api/docs/mediatypes/text_plain", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"Routes.java":           "Routes.java",
		"../../etc/Routes.java": "Routes.java",
		`C:\src\Routes.java`:    "Routes.java",
		"":                      "unnamed",
		"..":                    "_",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}
