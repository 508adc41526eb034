// Package models defines the domain types for archivist.
package models

import (
	"strings"
	"unicode"
)

// EntityType classifies an archive entry. The set is open: unknown values are
// carried through and get the default display treatment.
type EntityType string

const (
	TypePerson   EntityType = "Person"
	TypeMovement EntityType = "Movement"
	TypeEvent    EntityType = "Event"
)

// Entity is one archive record. Entities are immutable once loaded.
type Entity struct {
	ID          string     `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Type        EntityType `json:"type" yaml:"type"`
	Dates       string     `json:"dates" yaml:"dates"`
	Summary     string     `json:"summary" yaml:"summary"`
	Detail      string     `json:"detail" yaml:"detail"`
	KeyTerms    []string   `json:"key_terms" yaml:"key_terms"`
	Sources     []string   `json:"sources" yaml:"sources"`
	Connections []string   `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// SortYear parses the leading year token of Dates: the text before the first
// "-", leading whitespace skipped, then as many decimal digits as follow.
// ok is false when no digits are found ("c. 1920", "", "-500").
func (e Entity) SortYear() (year int, ok bool) {
	token, _, _ := strings.Cut(e.Dates, "-")
	token = strings.TrimLeftFunc(token, unicode.IsSpace)
	for _, r := range token {
		if r < '0' || r > '9' {
			break
		}
		year = year*10 + int(r-'0')
		ok = true
	}
	return year, ok
}
