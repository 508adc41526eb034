package api

import (
	"github.com/starford/archivist/internal/models"
	"github.com/starford/archivist/internal/navigation"
	"github.com/starford/archivist/internal/view"
)

// EntryListResponse wraps the full collection in document order.
type EntryListResponse struct {
	Entries []models.Entity `json:"entries" validate:"required"`
	Total   int             `json:"total" example:"42" validate:"required"`
}

// SearchResponse holds the filtered grids for a query.
type SearchResponse struct {
	Query string     `json:"query" example:"harlem"`
	Total int        `json:"total" example:"3" validate:"required"`
	Grids view.Grids `json:"grids" validate:"required"`
}

// TimelineResponse wraps the chronological list.
type TimelineResponse struct {
	Entries []view.TimelineEntry `json:"entries" validate:"required"`
}

// NoteResponse is a stored note.
type NoteResponse struct {
	Key  string `json:"key" example:"notes-ann" validate:"required"`
	Text string `json:"text" example:"Check the 1970 letters"`
}

// NoteListResponse lists the keys that have a stored note.
type NoteListResponse struct {
	Keys []string `json:"keys" validate:"required"`
}

// PutNoteRequest is the request body for saving a note.
type PutNoteRequest struct {
	Text string `json:"text" example:"Check the 1970 letters"`
}

// StateResponse is the caller's session and everything its view shows.
type StateResponse struct {
	Session string            `json:"session" validate:"required"`
	Screen  navigation.Screen `json:"screen" validate:"required"`
}

// CommandResponse reports the outcome of a dispatched command.
type CommandResponse struct {
	Session string            `json:"session" validate:"required"`
	Result  navigation.Result `json:"result" validate:"required"`
}
