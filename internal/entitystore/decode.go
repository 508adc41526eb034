package entitystore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/archivist/internal/models"
)

var errNotList = errors.New("top level is not a list")

// decode parses data as an ordered list of entities.
func decode(data []byte, format Format) ([]models.Entity, error) {
	var out []models.Entity
	switch format {
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.SequenceNode {
			return nil, errNotList
		}
		if err := doc.Content[0].Decode(&out); err != nil {
			return nil, err
		}
	default:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, errNotList
		}
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []models.Entity{}
	}
	return out, nil
}

// validate checks the few fields every consumer depends on. Optional fields
// are left alone.
func validate(entities []models.Entity) error {
	seen := make(map[string]int, len(entities))
	for i := range entities {
		e := &entities[i]
		if err := validation.ValidateStruct(e,
			validation.Field(&e.ID, validation.Required),
			validation.Field(&e.Name, validation.Required),
		); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if j, dup := seen[e.ID]; dup {
			return fmt.Errorf("entry %d: duplicate id %q (first at entry %d)", i, e.ID, j)
		}
		seen[e.ID] = i
	}
	return nil
}
