package catalog

import (
	"reflect"
	"strings"
	"testing"
)

func mustLoad(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	return c
}

func TestSelectStressCategory(t *testing.T) {
	s := NewSelector(mustLoad(t))

	got := s.Select("I have so much anxiety lately")
	if len(got) == 0 || len(got) > 2 {
		t.Fatalf("expected 1-2 results, got %d", len(got))
	}
	for _, e := range got {
		text := strings.ToLower(e.Title + " " + e.Description)
		if !strings.Contains(text, "stress") && !strings.Contains(text, "anxiety") {
			t.Fatalf("entry %q does not carry a stress/anxiety marker", e.Title)
		}
	}
}

func TestSelectPreservesCatalogOrder(t *testing.T) {
	cat := mustLoad(t)
	s := NewSelector(cat)

	got := s.Select("feeling stressed")
	entries := cat.Entries()
	lastIdx := -1
	for _, e := range got {
		idx := -1
		for i, ce := range entries {
			if ce.Title == e.Title {
				idx = i
				break
			}
		}
		if idx <= lastIdx {
			t.Fatalf("results not in catalog registration order")
		}
		lastIdx = idx
	}
}

func TestSelectFallback(t *testing.T) {
	cat := mustLoad(t)
	s := NewSelector(cat)

	// No category keyword at all: first three catalog entries, capped at 2.
	got := s.Select("hello there")
	want := cat.Entries()[:2]
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("fallback mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSelectCategoryPrecedence(t *testing.T) {
	s := NewSelector(mustLoad(t))

	// Stress is tested before focus, so the stress filter must win.
	got := s.Select("I'm stressed and need focus")
	if len(got) == 0 {
		t.Fatal("expected results")
	}
	for _, e := range got {
		text := strings.ToLower(e.Title + " " + e.Description)
		if !strings.Contains(text, "stress") && !strings.Contains(text, "anxiety") {
			t.Fatalf("precedence violated: entry %q is not from the stress category", e.Title)
		}
	}
}

func TestSelectCategories(t *testing.T) {
	s := NewSelector(mustLoad(t))

	cases := []struct {
		name    string
		query   string
		markers []string
	}{
		{name: "focus", query: "I get distracted, need concentration", markers: []string{"focus", "concentration"}},
		{name: "sleep", query: "can't sleep at night", markers: []string{"sleep", "relaxation"}},
		{name: "hindi", query: "meditation in hindi please", markers: []string{"hindi"}},
		{name: "beginner", query: "something basic for a beginner", markers: []string{"beginner", "basic"}},
		{name: "short", query: "just a quick one", markers: []string{"5 min", "7 min", "10 min"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Select(tc.query)
			if len(got) == 0 || len(got) > 2 {
				t.Fatalf("expected 1-2 results, got %d", len(got))
			}
			for _, e := range got {
				text := strings.ToLower(e.Title + " " + e.Description)
				matched := false
				for _, m := range tc.markers {
					if strings.Contains(text, m) {
						matched = true
						break
					}
				}
				if !matched {
					t.Fatalf("entry %q carries none of the markers %v", e.Title, tc.markers)
				}
			}
		})
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	s := NewSelector(mustLoad(t))

	first := s.Select("stress relief")
	second := s.Select("stress relief")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same query produced different results:\n%+v\n%+v", first, second)
	}
}

func TestSelectCaseInsensitive(t *testing.T) {
	s := NewSelector(mustLoad(t))

	lower := s.Select("anxiety help")
	upper := s.Select("ANXIETY HELP")
	if !reflect.DeepEqual(lower, upper) {
		t.Fatalf("case changed the result:\n%+v\n%+v", lower, upper)
	}
}
