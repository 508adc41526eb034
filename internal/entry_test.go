package internal

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleArchive = `[
  {"id": "ann", "name": "Ann Walker", "type": "Person", "dates": "1920-1980", "summary": "Poet", "connections": ["Harlem Renaissance"]},
  {"id": "hr", "name": "Harlem Renaissance", "type": "Movement", "dates": "1918-1937", "summary": "Cultural movement"}
]`

func testConfig(t *testing.T, source string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Archive.Source = source
	cfg.Archive.Title = "Test Archive"
	cfg.Archive.Watch = false
	cfg.Notes.Path = filepath.Join(t.TempDir(), "notes.db")
	return cfg
}

func testRuntime(t *testing.T, cfg *Config) *runtime {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	rt, err := newRuntime(context.Background(), cfg, nil, logger)
	if err != nil {
		t.Fatalf("newRuntime: %v", err)
	}
	t.Cleanup(rt.Close)
	return rt
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRuntimeServesArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(sampleArchive), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(t, path)
	cfg.Archive.Watch = true
	rt := testRuntime(t, cfg)

	if rt.store == nil || rt.store.Len() != 2 {
		t.Fatalf("store not loaded: %v", rt.loadErr)
	}
	if rt.watchPath != path {
		t.Errorf("watchPath = %q, want %q", rt.watchPath, path)
	}

	for path, want := range map[string]int{
		"/health/live":  http.StatusOK,
		"/health/ready": http.StatusOK,
		"/api/entries":  http.StatusOK,
		"/":             http.StatusOK,
	} {
		if w := get(t, rt.handler, path); w.Code != want {
			t.Errorf("GET %s = %d, want %d", path, w.Code, want)
		}
	}

	w := get(t, rt.handler, "/section/persons")
	if !strings.Contains(w.Body.String(), "Ann Walker") {
		t.Error("persons page missing entity")
	}
}

func TestRuntimeReportsLoadFailure(t *testing.T) {
	rt := testRuntime(t, testConfig(t, filepath.Join(t.TempDir(), "missing.json")))

	if rt.loadErr == nil || rt.store != nil || rt.sessions != nil {
		t.Fatal("expected load failure")
	}
	if rt.watchPath != "" {
		t.Error("watching disabled in config")
	}

	for path, want := range map[string]int{
		"/health/live":  http.StatusOK,
		"/health/ready": http.StatusServiceUnavailable,
		"/api/entries":  http.StatusServiceUnavailable,
		"/":             http.StatusServiceUnavailable,
	} {
		if w := get(t, rt.handler, path); w.Code != want {
			t.Errorf("GET %s = %d, want %d", path, w.Code, want)
		}
	}
}

func TestRuntimeRequiresAuthForAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	_ = os.WriteFile(path, []byte(sampleArchive), 0o644)
	cfg := testConfig(t, path)
	cfg.Auth = AuthConfig{Mode: AuthModeToken, Token: "secret"}
	rt := testRuntime(t, cfg)

	if w := get(t, rt.handler, "/api/entries"); w.Code != http.StatusUnauthorized {
		t.Errorf("api without token = %d", w.Code)
	}
	if w := get(t, rt.handler, "/"); w.Code != http.StatusOK {
		t.Errorf("pages stay public, got %d", w.Code)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
	if err := RunMCP(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
