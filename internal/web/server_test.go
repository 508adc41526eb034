package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/testutil"
	"github.com/starford/archivist/internal/view"
)

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

// newBrowser starts the HTML surface over the shared test archive and returns
// a client that keeps its session cookie between requests.
func newBrowser(t *testing.T) *browser {
	t.Helper()
	store := testutil.Store(t, testutil.Archive())
	notes := testutil.Notes(t)
	sessions := navigation.NewSessions(func(ctx context.Context, _ string) *navigation.Controller {
		return navigation.New(ctx, store, notes)
	}, 0)
	srv, err := NewServer(Config{Title: "Test Archive", Sessions: sessions})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &browser{t: t, base: ts.URL, client: &http.Client{Jar: jar}}
}

func (b *browser) get(path string) (int, string, http.Header) {
	b.t.Helper()
	resp, err := b.client.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	return read(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (int, string, http.Header) {
	b.t.Helper()
	resp, err := b.client.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	return read(b.t, resp)
}

func read(t *testing.T, resp *http.Response) (int, string, http.Header) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func mustContain(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(body, w) {
			t.Errorf("page missing %q", w)
		}
	}
}

func TestHomePage(t *testing.T) {
	b := newBrowser(t)
	code, body, header := b.get("/")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	mustContain(t, body, "<title>Test Archive</title>", `class="tab active" href="/section/home"`, "data-rotate", `action="/notes/homeNotes"`)
	if !strings.Contains(body, `href="/entries/`) {
		t.Error("home should link the daily card to its detail page")
	}
	if header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}

func TestDetailRoundTrip(t *testing.T) {
	b := newBrowser(t)

	_, body, _ := b.get("/section/timeline")
	mustContain(t, body, `class="timeline"`, `action="/notes/timelineNotes"`)

	_, body, _ = b.get("/entries/ann")
	mustContain(t, body, "<em>Harlem Nights</em>", "Walker, Letters (1970)", `action="/notes/`+notestore.EntityKey("ann")+`"`)

	code, body, _ := b.post("/detail/close", nil)
	if code != http.StatusOK {
		t.Fatalf("close status = %d", code)
	}
	mustContain(t, body, `class="timeline"`)
}

func TestUnknownEntryKeepsView(t *testing.T) {
	b := newBrowser(t)
	b.get("/section/movements")
	code, body, _ := b.get("/entries/ghost")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	mustContain(t, body, `class="tab active" href="/section/movements"`, "Harlem Renaissance")
}

func TestUnknownSection(t *testing.T) {
	b := newBrowser(t)
	for _, path := range []string{"/section/attic", "/section/detailPage"} {
		if code, _, _ := b.get(path); code != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, code)
		}
	}
}

func TestSearch(t *testing.T) {
	b := newBrowser(t)

	_, body, _ := b.get("/search?q=poet")
	mustContain(t, body, `class="tab active" href="/section/persons"`, "Ann Walker")

	_, body, _ = b.get("/search?q=washington")
	mustContain(t, body, view.EmptyPersons)

	// A blank query restores the grids without moving.
	b.get("/section/movements")
	_, body, _ = b.get("/search?q=")
	mustContain(t, body, `class="tab active" href="/section/movements"`, "Harlem Renaissance", "March on Washington")
}

func TestNotesSaveAndCopy(t *testing.T) {
	b := newBrowser(t)

	code, body, _ := b.post("/notes/homeNotes", url.Values{"text": {"remember the letters"}})
	if code != http.StatusOK {
		t.Fatalf("save status = %d", code)
	}
	mustContain(t, body, ">remember the letters</textarea>")

	_, body, _ = b.post("/notes/homeNotes/copy", nil)
	mustContain(t, body, "Copied notes", "remember the letters")

	_, body, _ = b.post("/notes/personsNotes/copy", nil)
	mustContain(t, body, navigation.NoticeNothingToCopy)

	if code, _, _ := b.post("/notes/bogus", url.Values{"text": {"x"}}); code != http.StatusBadRequest {
		t.Errorf("invalid key status = %d", code)
	}
}

func TestMindMapExport(t *testing.T) {
	b := newBrowser(t)

	_, body, _ := b.get("/mindmap/export.svg")
	mustContain(t, body, navigation.NoticeMapNotReady)

	_, body, _ = b.get("/section/mindmap")
	mustContain(t, body, `src="/mindmap/export.svg"`)

	code, body, header := b.get("/mindmap/export.svg")
	if code != http.StatusOK {
		t.Fatalf("export status = %d", code)
	}
	if header.Get("Content-Type") != "image/svg+xml" {
		t.Errorf("content type = %q", header.Get("Content-Type"))
	}
	if cd := header.Get("Content-Disposition"); !strings.Contains(cd, `filename="Test-Archive-Mindmap.svg"`) {
		t.Errorf("content disposition = %q", cd)
	}
	mustContain(t, body, "<svg", "Ann Walker")

	if code, _, _ := b.post("/mindmap/reset", nil); code != http.StatusOK {
		t.Errorf("reset status = %d", code)
	}
}

func TestLoadErrorPage(t *testing.T) {
	srv, err := NewServer(Config{Title: "Test Archive", LoadErr: errors.New("open data.json: no such file or directory")})
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/section/persons", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
	mustContain(t, w.Body.String(), "The archive could not be loaded.", "no such file or directory")

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	if w.Code != http.StatusOK {
		t.Errorf("static assets should survive a load failure, status = %d", w.Code)
	}
}

func TestNewServerRequiresState(t *testing.T) {
	if _, err := NewServer(Config{}); err == nil {
		t.Fatal("expected error without sessions or load error")
	}
}

func TestExportFilename(t *testing.T) {
	s := &Server{cfg: Config{Title: "Black Unity Archive"}}
	if got := s.ExportFilename(); got != "Black-Unity-Archive-Mindmap.svg" {
		t.Errorf("ExportFilename = %q", got)
	}
}
