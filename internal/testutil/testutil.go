// Package testutil provides shared test helpers for building archives and note stores.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/models"
	"github.com/starford/archivist/internal/notestore"
)

// Scenario is the two-person archive: Ann (1920) connects to Bob (1900).
func Scenario() []models.Entity {
	return []models.Entity{
		{ID: "a", Name: "Ann", Dates: "1920-1930", Type: models.TypePerson, Summary: "Poet", Connections: []string{"Bob"}},
		{ID: "b", Name: "Bob", Dates: "1900-1910", Type: models.TypePerson, Summary: "Organizer"},
	}
}

// Archive is a small mixed archive with a movement, an event, an unknown
// type and a dangling connection.
func Archive() []models.Entity {
	return []models.Entity{
		{ID: "ann", Name: "Ann Walker", Type: models.TypePerson, Dates: "1920-1980", Summary: "Poet of the city",
			Detail: "<p>Wrote <em>Harlem Nights</em>.</p>", KeyTerms: []string{"poetry", "Harlem"},
			Sources: []string{"Walker, Letters (1970)"}, Connections: []string{"Harlem Renaissance", "Nobody"}},
		{ID: "hr", Name: "Harlem Renaissance", Type: models.TypeMovement, Dates: "1918-1937", Summary: "Cultural movement",
			KeyTerms: []string{"art", "music"}},
		{ID: "march", Name: "March on Washington", Type: models.TypeEvent, Dates: "1963", Summary: "Rally for jobs and freedom",
			Connections: []string{"Ann Walker"}},
		{ID: "journal", Name: "The Crisis", Type: "Publication", Dates: "1910-", Summary: "Magazine"},
	}
}

// Store wraps entities in an entitystore.Store.
func Store(t *testing.T, entities []models.Entity) *entitystore.Store {
	t.Helper()
	return entitystore.New("test", entities, "test-checksum")
}

// NotesAt opens a SQLite note store at path and closes it on cleanup.
func NotesAt(t *testing.T, path string) *notestore.Adapter {
	t.Helper()
	kv, err := notestore.OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	a := notestore.New(kv)
	t.Cleanup(func() { a.Close() })
	return a
}

// Notes opens a SQLite note store in a temporary directory.
func Notes(t *testing.T) *notestore.Adapter {
	t.Helper()
	return NotesAt(t, filepath.Join(t.TempDir(), "notes.db"))
}
