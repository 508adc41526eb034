package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/notestore"
)

// Deps is what the API needs from the running application.
type Deps struct {
	// Store is nil when the archive failed to load; LoadErr then says why.
	Store    *entitystore.Store
	LoadErr  error
	Notes    *notestore.Adapter
	Sessions *navigation.Sessions
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	Now    func() time.Time
}

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(d Deps, authEnabled bool, token string) chi.Router {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	if d.Events != nil {
		r.Get("/events", d.Events.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(h.requireArchive)

		r.Get("/entries", h.ListEntries)
		r.Get("/entries/{id}", h.GetEntry)
		r.Get("/search", h.Search)
		r.Get("/timeline", h.Timeline)
		r.Get("/mindmap", h.MindMap)
		r.Get("/daily", h.Daily)

		r.Get("/notes", h.ListNotes)
		r.Get("/notes/{key}", h.GetNote)
		r.Put("/notes/{key}", h.PutNote)

		r.Get("/state", h.State)
		r.Post("/commands", h.Command)
	})

	return r
}
