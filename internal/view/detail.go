package view

import (
	"html/template"
	"slices"

	"github.com/starford/archivist/internal/models"
)

// Detail is the single-entity page.
type Detail struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Dates   string   `json:"dates"`
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
	// Body is the entity's detail field passed through as markup. The archive
	// document is trusted: nothing is sanitized here, so a deployment that
	// loads third-party documents must sanitize them before they reach Load.
	Body template.HTML `json:"body"`
}

// RenderDetail projects an entity onto the detail page.
func RenderDetail(e models.Entity) Detail {
	sources := slices.Clone(e.Sources)
	if sources == nil {
		sources = []string{}
	}
	return Detail{
		ID:      e.ID,
		Name:    e.Name,
		Type:    string(e.Type),
		Dates:   e.Dates,
		Summary: e.Summary,
		Sources: sources,
		Body:    template.HTML(e.Detail), //nolint:gosec // trusted archive content
	}
}
