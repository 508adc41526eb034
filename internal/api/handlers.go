package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/archivist/internal/apperr"
	"github.com/starford/archivist/internal/checksum"
	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/search"
	"github.com/starford/archivist/internal/view"
	"github.com/starford/archivist/internal/websession"
)

// maxBody bounds note and command request bodies.
const maxBody = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	store    *entitystore.Store
	loadErr  error
	notes    *notestore.Adapter
	sessions *navigation.Sessions
	now      func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(d Deps) *Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		store:    d.Store,
		loadErr:  d.LoadErr,
		notes:    d.Notes,
		sessions: d.Sessions,
		now:      now,
	}
}

// ListEntries handles GET /api/entries.
//
//	@Summary		List every entity in document order
//	@Tags			entries
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"ETag from a previous response"
//	@Success		200		{object}	EntryListResponse
//	@Success		304
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	etag := checksum.ETag(h.store.Checksum())
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	all := h.store.All()
	writeJSON(w, http.StatusOK, EntryListResponse{Entries: all, Total: len(all)})
}

// GetEntry handles GET /api/entries/{id}.
//
//	@Summary		Get one entity by id
//	@Tags			entries
//	@Produce		json
//	@Param			id	path		string	true	"Entity id"
//	@Success		200	{object}	models.Entity
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/entries/{id} [get]
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, ok := h.store.ByID(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Search handles GET /api/search?q=.
//
//	@Summary		Filter entities by name, summary and key terms
//	@Tags			search
//	@Produce		json
//	@Param			q	query		string	false	"Case-insensitive substring; blank returns everything"
//	@Success		200	{object}	SearchResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	hits := search.Filter(h.store.All(), q)
	writeJSON(w, http.StatusOK, SearchResponse{
		Query: q,
		Total: len(hits),
		Grids: view.RenderGrids(hits),
	})
}

// Timeline handles GET /api/timeline.
//
//	@Summary		Entities in chronological order
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	TimelineResponse
//	@Security		BearerAuth
//	@Router			/timeline [get]
func (h *Handler) Timeline(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, TimelineResponse{Entries: view.RenderTimeline(h.store.All())})
}

// MindMap handles GET /api/mindmap.
//
//	@Summary		Node and edge description of the connection graph
//	@Tags			views
//	@Produce		json
//	@Success		200	{object}	view.MindMap
//	@Security		BearerAuth
//	@Router			/mindmap [get]
func (h *Handler) MindMap(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, view.RenderMindMap(h.store.All()))
}

// Daily handles GET /api/daily.
//
//	@Summary		The entity featured today (or on the given UTC date)
//	@Tags			views
//	@Produce		json
//	@Param			date	query		string	false	"Day as YYYY-MM-DD"
//	@Success		200		{object}	view.DailyCard
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/daily [get]
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	at := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
			return
		}
		at = d
	}
	card, err := view.DailyPick(at, h.store.All())
	if err != nil {
		if errors.Is(err, apperr.ErrEmptyCollection) {
			writeJSON(w, http.StatusNotFound, errorBody("archive is empty"))
			return
		}
		slog.Error("daily pick failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List the keys that have a stored note
//	@Tags			notes
//	@Produce		json
//	@Success		200	{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	keys, err := h.notes.Keys(r.Context())
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Keys: keys})
}

// GetNote handles GET /api/notes/{key}.
//
//	@Summary		Read a note; absent notes read as empty text
//	@Tags			notes
//	@Produce		json
//	@Param			key	path		string	true	"Section key (homeNotes, ...) or notes-<id>"
//	@Success		200	{object}	NoteResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{key} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !notestore.ValidKey(key) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note key"))
		return
	}
	text, err := h.notes.Load(r.Context(), key)
	if err != nil {
		slog.Error("load note failed", slog.String("key", key), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Key: key, Text: text})
}

// PutNote handles PUT /api/notes/{key}. The note is saved through the
// caller's session so its event stream reports the change.
//
//	@Summary		Overwrite a note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			key		path		string			true	"Section key (homeNotes, ...) or notes-<id>"
//	@Param			body	body		PutNoteRequest	true	"Note text"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{key} [put]
func (h *Handler) PutNote(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !notestore.ValidKey(key) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid note key"))
		return
	}
	var req PutNoteRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	s := websession.Resolve(w, r, h.sessions)
	err := s.Do(func(c *navigation.Controller) error {
		return c.SaveNote(r.Context(), key, req.Text)
	})
	if err != nil {
		slog.Error("save note failed", slog.String("key", key), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("note could not be saved"))
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Key: key, Text: req.Text})
}

// State handles GET /api/state.
//
//	@Summary		The caller's navigation state and current view
//	@Tags			navigation
//	@Produce		json
//	@Param			X-Archivist-Session	header	string	false	"Session id; a new session is created when absent"
//	@Success		200	{object}	StateResponse
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	s := websession.Resolve(w, r, h.sessions)
	var resp StateResponse
	_ = s.Do(func(c *navigation.Controller) error {
		resp = StateResponse{Session: s.ID, Screen: c.Screen()}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// Command handles POST /api/commands.
//
//	@Summary		Dispatch one navigation command
//	@Tags			navigation
//	@Accept			json
//	@Produce		json
//	@Param			X-Archivist-Session	header	string				false	"Session id; a new session is created when absent"
//	@Param			body				body	navigation.Command	true	"Command"
//	@Success		200		{object}	CommandResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/commands [post]
func (h *Handler) Command(w http.ResponseWriter, r *http.Request) {
	var cmd navigation.Command
	if err := readJSON(w, r, &cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid command: "+err.Error()))
		return
	}
	switch cmd.Kind {
	case navigation.CmdSaveNote, navigation.CmdCopyNotes:
		if !notestore.ValidKey(cmd.Key) {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid note key"))
			return
		}
	}

	s := websession.Resolve(w, r, h.sessions)
	var res navigation.Result
	err := s.Do(func(c *navigation.Controller) error {
		var err error
		res, err = c.Dispatch(r.Context(), cmd)
		return err
	})
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("command failed", slog.String("command", cmd.Kind.String()), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, CommandResponse{Session: s.ID, Result: res})
}
