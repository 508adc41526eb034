// Package web serves the server-rendered HTML surface: one page per view,
// driven by the caller's navigation session.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/websession"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Config wires the HTML surface to the running application.
type Config struct {
	// Title names the archive in page headers and download file names.
	Title string
	// Sessions is nil when the archive failed to load; LoadErr then says why.
	Sessions *navigation.Sessions
	LoadErr  error
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
	Logger *slog.Logger
}

// Server renders pages.
type Server struct {
	cfg  Config
	tmpl *template.Template
	log  *slog.Logger
}

// NewServer parses the embedded templates.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Sessions == nil && cfg.LoadErr == nil {
		return nil, fmt.Errorf("web: sessions or load error required")
	}
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"noteKey":  notestore.EntityKey,
		"millis":   millis,
		"tabLabel": tabLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, tmpl: tmpl, log: logger}, nil
}

// Handler returns the router for the HTML surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(withSecurityHeaders)

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if s.cfg.Events != nil {
		r.Get("/events", s.cfg.Events.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.requireArchive)

		r.Get("/", s.handleIndex)
		r.Get("/section/{section}", s.handleSection)
		r.Get("/entries/{id}", s.handleEntry)
		r.Post("/detail/close", s.handleCloseDetail)
		r.Get("/search", s.handleSearch)
		r.Post("/notes/{key}", s.handleSaveNote)
		r.Post("/notes/{key}/copy", s.handleCopyNotes)
		r.Get("/mindmap/export.svg", s.handleExport)
		r.Post("/mindmap/reset", s.handleReset)
	})
	return r
}

// ExportFilename is the download name of the mind map image.
func (s *Server) ExportFilename() string {
	name := strings.Join(strings.Fields(s.cfg.Title), "-")
	if name == "" {
		name = "Archive"
	}
	return name + "-Mindmap.svg"
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, nil)
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	section := navigation.Section(chi.URLParam(r, "section"))
	if !slices.Contains(navigation.ListSections, section) {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, func(c *navigation.Controller, _ *pageModel) {
		c.Activate(r.Context(), section)
	})
}

func (s *Server) handleEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.render(w, r, func(c *navigation.Controller, _ *pageModel) {
		c.OpenDetail(r.Context(), id)
	})
}

func (s *Server) handleCloseDetail(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) {
		c.CloseDetail(r.Context())
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.render(w, r, func(c *navigation.Controller, _ *pageModel) {
		c.Search(r.Context(), q)
	})
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !notestore.ValidKey(key) {
		http.Error(w, "invalid note key", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	text := r.PostForm.Get("text")
	s.apply(w, r, func(c *navigation.Controller) {
		if err := c.SaveNote(r.Context(), key, text); err != nil {
			s.log.Error("web: save note failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	})
}

func (s *Server) handleCopyNotes(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !notestore.ValidKey(key) {
		http.Error(w, "invalid note key", http.StatusBadRequest)
		return
	}
	s.render(w, r, func(c *navigation.Controller, m *pageModel) {
		if text, ok := c.CopyNotes(r.Context(), key); ok {
			m.Clipboard = text
		}
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess := websession.Resolve(w, r, s.cfg.Sessions)
	var (
		img         []byte
		contentType string
		ok          bool
	)
	_ = sess.Do(func(c *navigation.Controller) error {
		img, contentType, ok = c.ExportMindMap(r.Context())
		return nil
	})
	if !ok {
		// The notice is shown on the next render.
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.ExportFilename()))
	_, _ = w.Write(img)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, func(c *navigation.Controller) {
		c.ResetMindMap(r.Context())
	})
}

// apply runs fn against the caller's controller and redirects to the current
// view.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, fn func(c *navigation.Controller)) {
	sess := websession.Resolve(w, r, s.cfg.Sessions)
	_ = sess.Do(func(c *navigation.Controller) error {
		fn(c)
		return nil
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) requireArchive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Sessions == nil {
			s.renderLoadError(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; base-uri 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
