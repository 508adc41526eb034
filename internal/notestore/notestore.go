// Package notestore persists free-text notes under a stable key scheme.
package notestore

import (
	"context"
	"fmt"
	"strings"
)

// Fixed section keys.
const (
	KeyHome      = "homeNotes"
	KeyPersons   = "personsNotes"
	KeyMovements = "movementsNotes"
	KeyTimeline  = "timelineNotes"
	KeyMindMap   = "mindmapNotes"
	KeyResources = "resourcesNotes"
)

// entityKeyPrefix scopes detail-page notes to one entity.
const entityKeyPrefix = "notes-"

// SectionKeys lists every fixed section key.
var SectionKeys = []string{KeyHome, KeyPersons, KeyMovements, KeyTimeline, KeyMindMap, KeyResources}

// SectionKey returns the fixed key for a section, or "" when the section has
// no notes box.
func SectionKey(section string) string {
	k := section + "Notes"
	for _, known := range SectionKeys {
		if k == known {
			return k
		}
	}
	return ""
}

// EntityKey returns the detail-page note key for an entity id.
func EntityKey(id string) string {
	return entityKeyPrefix + id
}

// ValidKey reports whether key follows the key scheme: a fixed section key or
// an entity key with a non-empty id. The Adapter itself accepts any key; the
// outer surfaces use this to reject typos.
func ValidKey(key string) bool {
	for _, known := range SectionKeys {
		if key == known {
			return true
		}
	}
	return strings.HasPrefix(key, entityKeyPrefix) && len(key) > len(entityKeyPrefix)
}

// KV is the external persistence capability: get/set a string by key.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Lister is implemented by backends that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Adapter is a thin pass-through over a KV. There is no validation, no size
// limit and no eviction: keys accumulate for every entity ever annotated.
type Adapter struct {
	kv KV
}

// New wraps kv.
func New(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// Save overwrites the note stored under key.
func (a *Adapter) Save(ctx context.Context, key, text string) error {
	if err := a.kv.Set(ctx, key, text); err != nil {
		return fmt.Errorf("notestore: save %s: %w", key, err)
	}
	return nil
}

// Load returns the note stored under key, or "" when there is none.
func (a *Adapter) Load(ctx context.Context, key string) (string, error) {
	v, ok, err := a.kv.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("notestore: load %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return v, nil
}

// Keys lists every key that has a stored note, in lexical order.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	l, ok := a.kv.(Lister)
	if !ok {
		return nil, fmt.Errorf("notestore: backend cannot list keys")
	}
	keys, err := l.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("notestore: keys: %w", err)
	}
	return keys, nil
}

// Close releases the underlying store.
func (a *Adapter) Close() error {
	return a.kv.Close()
}
