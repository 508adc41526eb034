package search

import (
	"testing"

	"github.com/starford/archivist/internal/models"
)

func sample() []models.Entity {
	return []models.Entity{
		{ID: "a", Name: "Ann Walker", Summary: "Poet of the city", KeyTerms: []string{"Harlem"}},
		{ID: "b", Name: "Bob", Summary: "Organizer", KeyTerms: []string{"labor", "union"}},
		{ID: "c", Name: "March on Washington", Summary: "1963 rally"},
	}
}

func ids(es []models.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterBlankReturnsAll(t *testing.T) {
	in := sample()
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Filter(in, q)
		if len(got) != len(in) {
			t.Fatalf("Filter(%q) len = %d", q, len(got))
		}
		for i := range in {
			if got[i].ID != in[i].ID {
				t.Errorf("Filter(%q) reordered: %v", q, ids(got))
			}
		}
	}
}

func TestFilterFields(t *testing.T) {
	cases := map[string][]string{
		"walker":  {"a"},
		"ORGAN":   {"b"},
		"harlem":  {"a"},
		"UNION":   {"b"},
		"1963":    {"c"},
		" bob ":   {"b"},
		"on":      {"b", "c"},
		"nowhere": {},
	}
	for q, want := range cases {
		got := ids(Filter(sample(), q))
		if len(got) != len(want) {
			t.Errorf("Filter(%q) = %v, want %v", q, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Filter(%q) = %v, want %v", q, got, want)
			}
		}
	}
}

func TestFilterDetailNotSearched(t *testing.T) {
	in := []models.Entity{{ID: "a", Name: "Ann", Detail: "secretword"}}
	if got := Filter(in, "secretword"); len(got) != 0 {
		t.Errorf("detail field must not be searched: %v", ids(got))
	}
}
