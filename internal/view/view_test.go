package view

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/archivist/internal/apperr"
	"github.com/starford/archivist/internal/models"
)

func scenario() []models.Entity {
	return []models.Entity{
		{ID: "a", Name: "Ann", Dates: "1920-1930", Type: models.TypePerson, Connections: []string{"Bob"}},
		{ID: "b", Name: "Bob", Dates: "1900-1910", Type: models.TypePerson},
	}
}

func mixed() []models.Entity {
	return []models.Entity{
		{ID: "p1", Name: "Ann", Type: models.TypePerson, KeyTerms: []string{"poetry", "essays"}},
		{ID: "m1", Name: "Harlem Renaissance", Type: models.TypeMovement},
		{ID: "e1", Name: "March", Type: models.TypeEvent},
		{ID: "x1", Name: "Journal", Type: "Publication"},
		{ID: "p2", Name: "Bob", Type: models.TypePerson},
	}
}

func TestRenderGridsPartition(t *testing.T) {
	g := RenderGrids(mixed())
	if len(g.Persons.Cards) != 2 || g.Persons.Cards[0].ID != "p1" || g.Persons.Cards[1].ID != "p2" {
		t.Errorf("persons = %+v", g.Persons.Cards)
	}
	if len(g.Movements.Cards) != 2 || g.Movements.Cards[0].ID != "m1" || g.Movements.Cards[1].ID != "e1" {
		t.Errorf("movements = %+v", g.Movements.Cards)
	}
	if g.Persons.Cards[0].KeyTerms != "poetry, essays" {
		t.Errorf("key terms = %q", g.Persons.Cards[0].KeyTerms)
	}
	if g.Persons.EmptyMessage != "" || g.Movements.EmptyMessage != "" {
		t.Error("non-empty buckets must not carry an empty message")
	}

	seen := map[string]int{}
	for _, c := range append(g.Persons.Cards, g.Movements.Cards...) {
		seen[c.ID]++
	}
	if seen["x1"] != 0 {
		t.Error("unknown type must be dropped")
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("%s appears %d times", id, n)
		}
	}
}

func TestRenderGridsEmptyBuckets(t *testing.T) {
	g := RenderGrids(nil)
	if g.Persons.EmptyMessage != EmptyPersons || g.Movements.EmptyMessage != EmptyMovements {
		t.Errorf("empty messages = %q / %q", g.Persons.EmptyMessage, g.Movements.EmptyMessage)
	}

	g = RenderGrids([]models.Entity{{ID: "p", Name: "P", Type: models.TypePerson}})
	if g.Persons.EmptyMessage != "" || g.Movements.EmptyMessage != EmptyMovements {
		t.Errorf("one-sided empty messages = %q / %q", g.Persons.EmptyMessage, g.Movements.EmptyMessage)
	}
}

func TestRenderTimelineScenario(t *testing.T) {
	tl := RenderTimeline(scenario())
	if len(tl) != 2 || tl[0].Name != "Bob" || tl[1].Name != "Ann" {
		t.Errorf("timeline = %+v", tl)
	}
}

func TestRenderTimelineStable(t *testing.T) {
	in := []models.Entity{
		{ID: "1", Dates: "1950-1960"},
		{ID: "2", Dates: "unknown"},
		{ID: "3", Dates: "1900"},
		{ID: "4", Dates: "1950-1951"},
		{ID: "5", Dates: ""},
		{ID: "6", Dates: "1950s"},
	}
	tl := RenderTimeline(in)
	var got []string
	for _, e := range tl {
		got = append(got, e.ID)
	}
	want := []string{"3", "1", "4", "6", "2", "5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	for i := 1; i < len(tl); i++ {
		if tl[i-1].HasYear && tl[i].HasYear && tl[i-1].Year > tl[i].Year {
			t.Errorf("not sorted at %d", i)
		}
	}
	if in[0].ID != "1" || in[2].ID != "3" {
		t.Error("input must not be reordered")
	}
}

func TestRenderMindMapScenario(t *testing.T) {
	m := RenderMindMap(scenario())
	if len(m.Nodes) != 2 {
		t.Fatalf("nodes = %d, want 2", len(m.Nodes))
	}
	if len(m.Edges) != 1 || m.Edges[0] != (Edge{From: "a", To: "b"}) {
		t.Errorf("edges = %+v", m.Edges)
	}
}

func TestRenderMindMapDropsDangling(t *testing.T) {
	in := []models.Entity{
		{ID: "a", Name: "Ann", Type: models.TypePerson, Connections: []string{"Bob", "Nobody", "bob", "Cause"}},
		{ID: "b", Name: "Bob", Type: models.TypePerson, Connections: []string{"Ann"}},
		{ID: "c", Name: "Cause", Type: "Other"},
	}
	m := RenderMindMap(in)
	if len(m.Nodes) != len(in) {
		t.Errorf("nodes = %d", len(m.Nodes))
	}
	want := []Edge{{"a", "b"}, {"a", "c"}, {"b", "a"}}
	if len(m.Edges) != len(want) {
		t.Fatalf("edges = %+v", m.Edges)
	}
	for i := range want {
		if m.Edges[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, m.Edges[i], want[i])
		}
	}
	if m.Nodes[2].Color != DefaultNodeColor {
		t.Errorf("unknown type colour = %q", m.Nodes[2].Color)
	}
	if m.Nodes[0].Color != "#A0522D" || m.Nodes[0].Title != "" || m.Nodes[0].Group != "Person" {
		t.Errorf("node = %+v", m.Nodes[0])
	}
}

func TestRenderDetail(t *testing.T) {
	e := models.Entity{ID: "a", Name: "Ann", Dates: "1920", Detail: "<em>poet</em>", Sources: []string{"one", "two"}}
	d := RenderDetail(e)
	if string(d.Body) != "<em>poet</em>" {
		t.Errorf("body = %q", d.Body)
	}
	if len(d.Sources) != 2 || d.Sources[1] != "two" {
		t.Errorf("sources = %v", d.Sources)
	}
	if RenderDetail(models.Entity{ID: "x"}).Sources == nil {
		t.Error("sources should never be nil")
	}
}

func TestDailyPickConstantWithinDay(t *testing.T) {
	entities := mixed()
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	first, err := DailyPick(start, entities)
	if err != nil {
		t.Fatal(err)
	}
	for h := 0; h < 24; h++ {
		at := start.Add(time.Duration(h)*time.Hour + 59*time.Minute)
		got, _ := DailyPick(at, entities)
		if got.ID != first.ID {
			t.Fatalf("pick changed within day at %v: %s != %s", at, got.ID, first.ID)
		}
	}
	next, _ := DailyPick(start.Add(24*time.Hour), entities)
	if next.ID == first.ID {
		t.Error("pick should change at the day boundary for a collection of 5")
	}
}

func TestDailyIndexFormula(t *testing.T) {
	now := time.Unix(19792*86400+3600, 0)
	if got := DailyIndex(now, 7); got != 19792%7 {
		t.Errorf("DailyIndex = %d, want %d", got, 19792%7)
	}
	if got := DailyIndex(time.Unix(-1, 0), 7); got != 6 {
		t.Errorf("DailyIndex before epoch = %d, want 6", got)
	}
}

func TestDailyPickEmpty(t *testing.T) {
	if _, err := DailyPick(time.Now(), nil); !errors.Is(err, apperr.ErrEmptyCollection) {
		t.Errorf("err = %v", err)
	}
}
