package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/pipeline"
	"github.com/skein-viz/skein/pkg/positions"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	store, err := positions.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, store, logger)
	return New(runner, store, logger, Config{})
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := testServer(t).Routes()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestVersion(t *testing.T) {
	h := testServer(t).Routes()
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["version"] == "" {
		t.Error("version missing from response")
	}
}

func TestLayoutEndpoint(t *testing.T) {
	h := testServer(t).Routes()

	rec := postJSON(t, h, "/api/layout", map[string]any{
		"graph": graph.Graph{
			Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
			Edges: []graph.Edge{{ID: "e1", From: "a", To: "b"}},
		},
		"options": map[string]any{"direction": "TB"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.GraphHash == "" {
		t.Error("graph_hash missing")
	}
	if !resp.Layout.Routed("e1") {
		t.Error("edge e1 should be routed")
	}
	if got := resp.Layout.Routes["e1"]; got != 150 {
		t.Errorf("Routes[e1] = %v, want 150", got)
	}
}

func TestLayoutEndpointErrors(t *testing.T) {
	h := testServer(t).Routes()

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name: "duplicate node ids",
			body: map[string]any{
				"graph": graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_GRAPH",
		},
		{
			name: "bad direction",
			body: map[string]any{
				"graph":   graph.Graph{Nodes: []graph.Node{{ID: "a"}}},
				"options": map[string]any{"direction": "XY"},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DIRECTION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h, "/api/layout", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/layout", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRenderEndpointSingleFormat(t *testing.T) {
	h := testServer(t).Routes()

	rec := postJSON(t, h, "/api/render", map[string]any{
		"graph": graph.Graph{
			Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
			Edges: []graph.Edge{{ID: "e1", From: "a", To: "b"}},
		},
		"options": map[string]any{"formats": []string{"svg"}},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "<svg") {
		t.Error("body should be an SVG document")
	}
}

func TestPositionsCRUD(t *testing.T) {
	h := testServer(t).Routes()
	viewer := positions.NewViewerID()
	path := "/api/positions/" + viewer + "/abc123"

	// Missing overrides is a 404.
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET before PUT: status = %d, want 404", rec.Code)
	}

	// Save.
	body, _ := json.Marshal(positions.Overrides{"a": {X: 10, Y: 20}})
	req = httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT: status = %d, want 204: %s", rec.Code, rec.Body.String())
	}

	// Read back.
	req = httptest.NewRequest(http.MethodGet, path, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET: status = %d, want 200", rec.Code)
	}
	var ov positions.Overrides
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode overrides: %v", err)
	}
	if ov["a"].X != 10 || ov["a"].Y != 20 {
		t.Errorf("overrides = %+v, want a at (10,20)", ov)
	}

	// Delete and verify gone.
	req = httptest.NewRequest(http.MethodDelete, path, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, path, nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after DELETE: status = %d, want 404", rec.Code)
	}
}

func TestPositionsRejectsBadViewer(t *testing.T) {
	h := testServer(t).Routes()

	req := httptest.NewRequest(http.MethodGet, "/api/positions/bad.viewer/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
