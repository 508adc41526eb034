// Package entitystore loads the archive document once and serves it read-only.
package entitystore

import (
	"context"
	"slices"
	"time"

	"github.com/starford/archivist/internal/checksum"
	"github.com/starford/archivist/internal/models"
)

// Store holds the loaded collection. It is never mutated after Load, so
// concurrent readers need no locking.
type Store struct {
	source   string
	entities []models.Entity
	byID     map[string]int
	sum      string
	loadedAt time.Time
}

// Load performs the single read of src and returns the immutable collection.
// Failures are *LoadError values of kind Unreachable or Malformed.
func Load(ctx context.Context, src Source) (*Store, error) {
	data, format, err := src.Fetch(ctx)
	if err != nil {
		return nil, unreachable(src.Name(), err)
	}
	entities, err := decode(data, format)
	if err != nil {
		return nil, malformed(src.Name(), err)
	}
	if err := validate(entities); err != nil {
		return nil, malformed(src.Name(), err)
	}
	return New(src.Name(), entities, checksum.Sum(data)), nil
}

// New builds a Store from already decoded entities. The slice is copied.
func New(source string, entities []models.Entity, sum string) *Store {
	s := &Store{
		source:   source,
		entities: slices.Clone(entities),
		byID:     make(map[string]int, len(entities)),
		sum:      sum,
		loadedAt: time.Now(),
	}
	for i, e := range s.entities {
		if _, ok := s.byID[e.ID]; !ok {
			s.byID[e.ID] = i
		}
	}
	return s
}

// Source returns the name of the source the store was loaded from.
func (s *Store) Source() string { return s.source }

// All returns the collection in document order. The caller owns the slice.
func (s *Store) All() []models.Entity {
	return slices.Clone(s.entities)
}

// Len returns the collection size.
func (s *Store) Len() int { return len(s.entities) }

// ByID looks up an entity by id.
func (s *Store) ByID(id string) (models.Entity, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Entity{}, false
	}
	return s.entities[i], true
}

// ByName returns the first entity whose name matches exactly.
func (s *Store) ByName(name string) (models.Entity, bool) {
	for _, e := range s.entities {
		if e.Name == name {
			return e, true
		}
	}
	return models.Entity{}, false
}

// Checksum is the SHA-256 of the raw document.
func (s *Store) Checksum() string { return s.sum }

// LoadedAt reports when the store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }
