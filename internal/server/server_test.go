package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0}, testLogger())

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true}, testLogger())

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestUnknownAPIPathIs404(t *testing.T) {
	srv := New(Config{Port: 0}, testLogger())

	req := httptest.NewRequest("GET", "/api/nope", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("API 404 should be JSON, got %q", ct)
	}
}

func TestSPAFallback(t *testing.T) {
	staticDir := t.TempDir()
	index := []byte("<html>app</html>")
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), index, 0o644); err != nil {
		t.Fatal(err)
	}
	asset := []byte("body{}")
	if err := os.WriteFile(filepath.Join(staticDir, "app.css"), asset, 0o644); err != nil {
		t.Fatal(err)
	}

	srv := New(Config{Port: 0, StaticDir: staticDir}, testLogger())

	// Existing asset is served as-is.
	req := httptest.NewRequest("GET", "/app.css", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != string(asset) {
		t.Errorf("asset request = %d %q", w.Code, w.Body.String())
	}

	// Unknown client-side route falls back to index.html.
	req = httptest.NewRequest("GET", "/cards/B14-A-Kronfeld", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != string(index) {
		t.Errorf("spa fallback = %d %q", w.Code, w.Body.String())
	}
}
