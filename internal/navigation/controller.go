// Package navigation owns the view state of one browsing session: which
// section is visible, where "back" leads from the detail page, and which
// derived views must be rebuilt on each transition.
package navigation

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/layout"
	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/search"
	"github.com/starford/archivist/internal/view"
)

// User-facing notices.
const (
	NoticeMapNotReady    = "Wait for the map to load before saving!"
	NoticeNothingToCopy  = "Nothing to copy yet!"
	NoticeNoteSaveFailed = "Your note could not be saved."
)

// Controller is not safe for concurrent use; Sessions serializes access.
type Controller struct {
	store   *entitystore.Store
	notes   *notestore.Adapter
	layout  layout.Renderer
	now     func() time.Time
	logger  *slog.Logger
	onEvent EventFunc
	quotes  []view.Quote

	state    State
	query    string
	grids    view.Grids
	timeline []view.TimelineEntry
	home     view.Home
	mindmap  *view.MindMap
	detail   *view.Detail
	noteKey  string
	noteText string
	notice   string
}

// New builds a controller over a loaded store and shows the home section.
func New(ctx context.Context, store *entitystore.Store, notes *notestore.Adapter, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		notes:  notes,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.layout == nil {
		c.layout = layout.NewSVG()
	}

	all := store.All()
	c.grids = view.RenderGrids(all)
	c.timeline = view.RenderTimeline(all)
	c.state = State{Current: SectionHome, LastList: SectionHome}
	c.Activate(ctx, SectionHome)
	return c
}

// State returns the current view state.
func (c *Controller) State() State {
	return c.state
}

// Activate shows section. Every section other than the detail page becomes
// the new back target. Home recomputes the daily pick and the mind map is
// rebuilt from the store and handed to the layout renderer every time.
func (c *Controller) Activate(ctx context.Context, section Section) {
	c.state.Current = section
	if section != SectionDetail {
		c.state.LastList = section
		c.detail = nil
	}

	switch section {
	case SectionHome:
		c.refreshHome()
	case SectionMindMap:
		c.rebuildMindMap()
	}

	if key := notestore.SectionKey(string(section)); key != "" {
		c.loadNote(ctx, key)
	} else if section != SectionDetail {
		c.noteKey, c.noteText = "", ""
	}
	c.emit(EventViewChanged, map[string]string{"section": string(section)})
}

// OpenDetail shows the entity with the given id. An unknown id is ignored and
// reported as false; the view does not change.
func (c *Controller) OpenDetail(ctx context.Context, id string) bool {
	e, ok := c.store.ByID(id)
	if !ok {
		c.logger.Debug("navigation: detail for unknown id ignored", slog.String("id", id))
		return false
	}
	c.Activate(ctx, SectionDetail)
	d := view.RenderDetail(e)
	c.detail = &d
	c.loadNote(ctx, notestore.EntityKey(e.ID))
	return true
}

// CloseDetail returns to the last list section.
func (c *Controller) CloseDetail(ctx context.Context) {
	c.Activate(ctx, c.state.LastList)
}

// Search filters the grids. A blank query restores the full collection and
// leaves the view where it is; any other query also switches to persons so
// the results are visible.
func (c *Controller) Search(ctx context.Context, query string) {
	c.query = query
	if search.IsBlank(query) {
		c.grids = view.RenderGrids(c.store.All())
		return
	}
	c.grids = view.RenderGrids(search.Filter(c.store.All(), query))
	c.Activate(ctx, SectionPersons)
}

// SaveNote overwrites the note under key.
func (c *Controller) SaveNote(ctx context.Context, key, text string) error {
	if err := c.notes.Save(ctx, key, text); err != nil {
		c.notice = NoticeNoteSaveFailed
		return err
	}
	if key == c.noteKey {
		c.noteText = text
	}
	c.emit(EventNoteSaved, map[string]string{"key": key})
	return nil
}

// CopyNotes returns the note under key for the clipboard. An empty note
// yields false and a notice.
func (c *Controller) CopyNotes(ctx context.Context, key string) (string, bool) {
	text, err := c.notes.Load(ctx, key)
	if err != nil {
		c.logger.Warn("navigation: load note for copy failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if text == "" {
		c.notice = NoticeNothingToCopy
		return "", false
	}
	return text, true
}

// ExportMindMap returns the rendered mind map image. Before the mind map has
// been laid out it yields false and a notice.
func (c *Controller) ExportMindMap(_ context.Context) ([]byte, string, bool) {
	img, err := c.layout.Export()
	if err != nil {
		c.notice = NoticeMapNotReady
		return nil, "", false
	}
	return img, c.layout.ContentType(), true
}

// ResetMindMap discards the current layout and rebuilds it. Nothing happens
// if the mind map has never been shown.
func (c *Controller) ResetMindMap(_ context.Context) {
	if !c.layout.Ready() {
		return
	}
	c.rebuildMindMap()
}

// Screen is a snapshot of everything the current view displays.
type Screen struct {
	State    State                `json:"state"`
	Query    string               `json:"query"`
	Grids    view.Grids           `json:"grids"`
	Timeline []view.TimelineEntry `json:"timeline"`
	Home     view.Home            `json:"home"`
	MindMap  *view.MindMap        `json:"mindmap,omitempty"`
	Detail   *view.Detail         `json:"detail,omitempty"`
	NoteKey  string               `json:"note_key"`
	NoteText string               `json:"note_text"`
	Notice   string               `json:"notice,omitempty"`
}

// Screen returns the current snapshot. A pending notice is reported once.
func (c *Controller) Screen() Screen {
	s := Screen{
		State:    c.state,
		Query:    c.query,
		Grids:    c.grids,
		Timeline: c.timeline,
		Home:     c.home,
		MindMap:  c.mindmap,
		Detail:   c.detail,
		NoteKey:  c.noteKey,
		NoteText: c.noteText,
		Notice:   c.notice,
	}
	c.notice = ""
	return s
}

func (c *Controller) refreshHome() {
	c.home = view.Home{Quotes: slices.Clone(c.quotes)}
	card, err := view.DailyPick(c.now(), c.store.All())
	if err != nil {
		return
	}
	c.home.Daily = &card
}

func (c *Controller) rebuildMindMap() {
	m := view.RenderMindMap(c.store.All())
	c.mindmap = &m
	c.layout.Render(m)
}

func (c *Controller) loadNote(ctx context.Context, key string) {
	c.noteKey = key
	text, err := c.notes.Load(ctx, key)
	if err != nil {
		c.logger.Warn("navigation: load note failed", slog.String("key", key), slog.String("error", err.Error()))
		text = ""
	}
	c.noteText = text
}

func (c *Controller) emit(kind string, data map[string]string) {
	if c.onEvent != nil {
		c.onEvent(kind, data)
	}
}

