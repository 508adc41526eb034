// Package search filters the archive by a free-text query.
package search

import (
	"strings"

	"github.com/starford/archivist/internal/models"
)

// IsBlank reports whether query means "no filter".
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Filter keeps entities whose name, summary or any key term contains query,
// ignoring case. A blank query returns entities unchanged.
func Filter(entities []models.Entity, query string) []models.Entity {
	if IsBlank(query) {
		return entities
	}
	needle := strings.ToUpper(strings.TrimSpace(query))
	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		if Matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether e matches an already upper-cased needle.
func Matches(e models.Entity, needle string) bool {
	if strings.Contains(strings.ToUpper(e.Name), needle) ||
		strings.Contains(strings.ToUpper(e.Summary), needle) {
		return true
	}
	for _, term := range e.KeyTerms {
		if strings.Contains(strings.ToUpper(term), needle) {
			return true
		}
	}
	return false
}
