package view

import (
	"slices"

	"github.com/starford/archivist/internal/models"
)

// TimelineEntry is one stop on the timeline.
type TimelineEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Dates   string `json:"dates"`
	Summary string `json:"summary"`
	Year    int    `json:"year"`
	HasYear bool   `json:"has_year"`
}

// RenderTimeline orders entities by the leading year of their dates.
// The sort is stable, so equal years keep collection order. Entries without a
// parseable year have no place on the scale; they go after every dated entry,
// still in collection order.
func RenderTimeline(entities []models.Entity) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(entities))
	for _, e := range entities {
		year, ok := e.SortYear()
		out = append(out, TimelineEntry{
			ID:      e.ID,
			Name:    e.Name,
			Type:    string(e.Type),
			Dates:   e.Dates,
			Summary: e.Summary,
			Year:    year,
			HasYear: ok,
		})
	}
	slices.SortStableFunc(out, func(a, b TimelineEntry) int {
		switch {
		case a.HasYear && b.HasYear:
			return a.Year - b.Year
		case a.HasYear:
			return -1
		case b.HasYear:
			return 1
		default:
			return 0
		}
	})
	return out
}
