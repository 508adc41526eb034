package web

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/websession"
)

// pageModel is what the page template sees.
type pageModel struct {
	Title     string
	Sections  []navigation.Section
	Screen    navigation.Screen
	Clipboard string
	LoadError string
	ExportURL string
}

// render runs fn (if any) against the caller's controller and renders the
// resulting screen.
func (s *Server) render(w http.ResponseWriter, r *http.Request, fn func(c *navigation.Controller, m *pageModel)) {
	sess := websession.Resolve(w, r, s.cfg.Sessions)
	m := pageModel{
		Title:     s.cfg.Title,
		Sections:  navigation.ListSections,
		ExportURL: "/mindmap/export.svg",
	}
	_ = sess.Do(func(c *navigation.Controller) error {
		if fn != nil {
			fn(c, &m)
		}
		m.Screen = c.Screen()
		return nil
	})
	s.write(w, http.StatusOK, m)
}

func (s *Server) renderLoadError(w http.ResponseWriter) {
	m := pageModel{
		Title:     s.cfg.Title,
		LoadError: "The archive could not be loaded.",
	}
	if s.cfg.LoadErr != nil {
		m.LoadError += " " + s.cfg.LoadErr.Error()
	}
	s.write(w, http.StatusServiceUnavailable, m)
}

// write executes into a buffer first so a template error never leaves a
// half-written page behind.
func (s *Server) write(w http.ResponseWriter, status int, m pageModel) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page.html", m); err != nil {
		s.log.Error("web: render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func millis(d time.Duration) int64 {
	return d.Milliseconds()
}

var tabLabels = map[navigation.Section]string{
	navigation.SectionHome:      "Home",
	navigation.SectionPersons:   "Persons",
	navigation.SectionMovements: "Movements & Events",
	navigation.SectionTimeline:  "Timeline",
	navigation.SectionMindMap:   "Mind Map",
	navigation.SectionResources: "Resources",
}

func tabLabel(s navigation.Section) string {
	return tabLabels[s]
}
