package navigation

import (
	"log/slog"
	"time"

	"github.com/starford/archivist/internal/layout"
	"github.com/starford/archivist/internal/view"
)

// EventFunc is called after a state change. kind is one of the Event* constants.
type EventFunc func(kind string, data map[string]string)

// Event kinds.
const (
	EventViewChanged = "view.changed"
	EventNoteSaved   = "note.saved"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now, used for the daily pick.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithLayout sets the graph layout collaborator. Defaults to layout.NewSVG().
func WithLayout(r layout.Renderer) Option {
	return func(c *Controller) {
		c.layout = r
	}
}

// WithEvents registers a callback for state changes.
func WithEvents(fn EventFunc) Option {
	return func(c *Controller) {
		c.onEvent = fn
	}
}

// WithQuotes sets the welcome sequence shown on the home section.
func WithQuotes(q []view.Quote) Option {
	return func(c *Controller) {
		c.quotes = q
	}
}
