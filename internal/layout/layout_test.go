package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/archivist/internal/apperr"
	"github.com/starford/archivist/internal/view"
)

func TestExportBeforeRender(t *testing.T) {
	s := NewSVG()
	if s.Ready() {
		t.Fatal("new renderer should not be ready")
	}
	if _, err := s.Export(); !errors.Is(err, apperr.ErrGraphNotReady) {
		t.Errorf("err = %v, want ErrGraphNotReady", err)
	}
}

func TestRenderAndExport(t *testing.T) {
	s := NewSVG()
	s.Render(view.MindMap{
		Nodes: []view.Node{
			{ID: "a", Label: "Ann & Co", Title: "<b>poet</b>", Color: "#A0522D"},
			{ID: "b", Label: "Bob", Color: "#A0522D"},
		},
		Edges: []view.Edge{{From: "a", To: "b"}, {From: "a", To: "ghost"}},
	})
	if !s.Ready() {
		t.Fatal("should be ready after Render")
	}
	out, err := s.Export()
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	doc := string(out)
	if !strings.HasPrefix(doc, "<svg") || !strings.HasSuffix(doc, "</svg>\n") {
		t.Errorf("not an svg document: %.60q", doc)
	}
	if !strings.Contains(doc, "Ann &amp; Co") || strings.Contains(doc, "<b>poet</b>") {
		t.Error("labels and titles must be escaped")
	}
	if n := strings.Count(doc, "<line "); n != 1 {
		t.Errorf("lines = %d, want 1", n)
	}
	if n := strings.Count(doc, "<g>"); n != 2 {
		t.Errorf("nodes = %d, want 2", n)
	}
}

func TestRenderReplacesPrevious(t *testing.T) {
	s := NewSVG()
	s.Render(view.MindMap{Nodes: []view.Node{{ID: "a", Label: "First"}}})
	s.Render(view.MindMap{Nodes: []view.Node{{ID: "b", Label: "Second"}}})
	out, _ := s.Export()
	if strings.Contains(string(out), "First") || !strings.Contains(string(out), "Second") {
		t.Error("Render must discard the previous layout")
	}
}

func TestPlaceIsDeterministic(t *testing.T) {
	nodes := []view.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	p1, p2 := place(nodes), place(nodes)
	for id := range p1 {
		if p1[id] != p2[id] {
			t.Errorf("position of %s differs", id)
		}
	}
	if p1["a"].y >= p1["b"].y {
		t.Error("first node should be at the top")
	}
}
