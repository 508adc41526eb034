package view

import "github.com/starford/archivist/internal/models"

// Node colours by entity type.
var typeColors = map[models.EntityType]string{
	models.TypePerson:   "#A0522D",
	models.TypeMovement: "#DAA520",
	models.TypeEvent:    "#F8F8FF",
}

// DefaultNodeColor is used for unrecognised types.
const DefaultNodeColor = "#778899"

// Node is one vertex of the relationship graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Group string `json:"group"`
	Color string `json:"color"`
}

// Edge is a directed connection From -> To, both entity ids.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MindMap is the node/edge description handed to a layout renderer.
type MindMap struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeColor returns the display colour for an entity type.
func NodeColor(t models.EntityType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultNodeColor
}

// RenderMindMap builds one node per entity and one edge per connection whose
// target name matches an entity exactly. Unmatched names are dropped.
func RenderMindMap(entities []models.Entity) MindMap {
	m := MindMap{
		Nodes: make([]Node, 0, len(entities)),
		Edges: []Edge{},
	}
	ids := make(map[string]string, len(entities))
	for _, e := range entities {
		if _, dup := ids[e.Name]; !dup {
			ids[e.Name] = e.ID
		}
		m.Nodes = append(m.Nodes, Node{
			ID:    e.ID,
			Label: e.Name,
			Title: e.Summary,
			Group: string(e.Type),
			Color: NodeColor(e.Type),
		})
	}
	for _, e := range entities {
		for _, name := range e.Connections {
			if to, ok := ids[name]; ok {
				m.Edges = append(m.Edges, Edge{From: e.ID, To: to})
			}
		}
	}
	return m
}
