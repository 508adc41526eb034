// Package layout places a mind map description on a canvas and exports it as
// an image. It consumes the node/edge description and returns nothing back to
// the navigation core.
package layout

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/starford/archivist/internal/apperr"
	"github.com/starford/archivist/internal/view"
)

// Renderer is the graph layout collaborator.
type Renderer interface {
	// Render discards any previous layout and lays out m.
	Render(m view.MindMap)
	// Ready reports whether a layout exists to export.
	Ready() bool
	// Export serializes the current layout. It fails with
	// apperr.ErrGraphNotReady before the first Render.
	Export() ([]byte, error)
	// ContentType is the MIME type of Export's output.
	ContentType() string
}

const (
	canvasSize = 800
	nodeWidth  = 140
	nodeHeight = 34
	background = "#1E1E1E"
	edgeColor  = "#DAA520"
	labelColor = "#F8F8FF"
)

type point struct{ x, y float64 }

// SVG is a Renderer with a deterministic circular layout.
type SVG struct {
	doc   []byte
	ready bool
}

var _ Renderer = (*SVG)(nil)

// NewSVG returns an empty renderer.
func NewSVG() *SVG {
	return &SVG{}
}

// Render implements Renderer.
func (s *SVG) Render(m view.MindMap) {
	pos := place(m.Nodes)

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		canvasSize, canvasSize, canvasSize, canvasSize)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<defs><marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker></defs>`, edgeColor)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, background)
	b.WriteString("\n")

	for _, e := range m.Edges {
		from, ok1 := pos[e.From]
		to, ok2 := pos[e.To]
		if !ok1 || !ok2 {
			continue
		}
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="0.4" stroke-width="2" marker-end="url(#arrow)"/>`,
			from.x, from.y, to.x, to.y, edgeColor)
		b.WriteString("\n")
	}

	for _, n := range m.Nodes {
		p := pos[n.ID]
		fmt.Fprintf(&b, `<g><title>%s</title><rect x="%.1f" y="%.1f" width="%d" height="%d" rx="4" fill="%s" stroke="#FFF"/><text x="%.1f" y="%.1f" fill="%s" font-family="Georgia" font-size="14" text-anchor="middle" dominant-baseline="middle">%s</text></g>`,
			html.EscapeString(n.Title),
			p.x-nodeWidth/2, p.y-nodeHeight/2, nodeWidth, nodeHeight, n.Color,
			p.x, p.y, labelColor, html.EscapeString(n.Label))
		b.WriteString("\n")
	}
	b.WriteString("</svg>\n")

	s.doc = b.Bytes()
	s.ready = true
}

// Ready implements Renderer.
func (s *SVG) Ready() bool {
	return s.ready
}

// Export implements Renderer.
func (s *SVG) Export() ([]byte, error) {
	if !s.ready {
		return nil, apperr.ErrGraphNotReady
	}
	return bytes.Clone(s.doc), nil
}

// ContentType implements Renderer.
func (s *SVG) ContentType() string {
	return "image/svg+xml"
}

// place spreads nodes evenly on a circle, first node at twelve o'clock.
func place(nodes []view.Node) map[string]point {
	out := make(map[string]point, len(nodes))
	c := float64(canvasSize) / 2
	if len(nodes) == 1 {
		out[nodes[0].ID] = point{c, c}
		return out
	}
	r := c - nodeWidth/2 - 10
	for i, n := range nodes {
		a := 2*math.Pi*float64(i)/float64(len(nodes)) - math.Pi/2
		out[n.ID] = point{c + r*math.Cos(a), c + r*math.Sin(a)}
	}
	return out
}
