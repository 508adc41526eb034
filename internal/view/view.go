// Package view turns entities into the view models each section displays.
// Every function is pure: inputs are never modified and no state is kept.
package view

import (
	"strings"

	"github.com/starford/archivist/internal/models"
)

// Empty-state messages shown instead of an empty grid.
const (
	EmptyPersons   = "No Persons found matching your search."
	EmptyMovements = "No Movements/Events found matching your search."
)

// Card is one grid tile.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	KeyTerms string `json:"key_terms"`
}

// Bucket is one grid. EmptyMessage is set only when Cards is empty.
type Bucket struct {
	Cards        []Card `json:"cards"`
	EmptyMessage string `json:"empty_message,omitempty"`
}

// Grids holds the persons grid and the movements-and-events grid.
type Grids struct {
	Persons   Bucket `json:"persons"`
	Movements Bucket `json:"movements"`
}

// RenderGrids partitions entities by type. Persons go to one bucket, movements
// and events to the other; entities of any other type appear in neither.
func RenderGrids(entities []models.Entity) Grids {
	g := Grids{
		Persons:   Bucket{Cards: []Card{}},
		Movements: Bucket{Cards: []Card{}},
	}
	for _, e := range entities {
		c := Card{
			ID:       e.ID,
			Name:     e.Name,
			Type:     string(e.Type),
			KeyTerms: strings.Join(e.KeyTerms, ", "),
		}
		switch e.Type {
		case models.TypePerson:
			g.Persons.Cards = append(g.Persons.Cards, c)
		case models.TypeMovement, models.TypeEvent:
			g.Movements.Cards = append(g.Movements.Cards, c)
		}
	}
	if len(g.Persons.Cards) == 0 {
		g.Persons.EmptyMessage = EmptyPersons
	}
	if len(g.Movements.Cards) == 0 {
		g.Movements.EmptyMessage = EmptyMovements
	}
	return g
}
