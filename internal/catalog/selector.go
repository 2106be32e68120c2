package catalog

import "strings"

// maxRecommendations bounds every selector result.
const maxRecommendations = 2

// fallbackPoolSize is how many leading catalog entries form the generic
// fallback pool when no category matches.
const fallbackPoolSize = 3

// categoryRule pairs the trigger keywords that classify a query with the
// marker terms that filter the catalog. Rules are evaluated in order and
// the first match wins, so precedence stays auditable.
type categoryRule struct {
	name     string
	triggers []string
	markers  []string
}

var categoryRules = []categoryRule{
	{
		name:     "stress",
		triggers: []string{"stress", "anxiety", "worried", "overwhelmed", "tension", "pressure"},
		markers:  []string{"stress", "anxiety"},
	},
	{
		name:     "focus",
		triggers: []string{"focus", "concentration", "attention", "distraction", "mindfulness"},
		markers:  []string{"focus", "concentration"},
	},
	{
		name:     "sleep",
		triggers: []string{"sleep", "insomnia", "rest", "relaxation", "calm"},
		markers:  []string{"sleep", "relaxation"},
	},
	{
		name:     "hindi",
		triggers: []string{"hindi", "indian", "sanskrit", "bollywood"},
		markers:  []string{"hindi"},
	},
	{
		name:     "beginner",
		triggers: []string{"beginner", "new", "start", "basic", "simple"},
		markers:  []string{"beginner", "basic"},
	},
	{
		name:     "short",
		triggers: []string{"short", "quick", "5 min", "10 min", "brief"},
		markers:  []string{"5 min", "7 min", "10 min"},
	},
}

// Selector classifies a query into a topic category and returns a bounded
// subset of the catalog. Pure: same query and catalog always yield the
// same result.
type Selector struct {
	catalog *Catalog
}

func NewSelector(c *Catalog) *Selector {
	return &Selector{catalog: c}
}

// Select returns at most two resources relevant to the query, in catalog
// registration order. Queries matching no category, or whose category
// filters down to nothing, fall back to the leading catalog entries.
func (s *Selector) Select(query string) []ResourceEntry {
	q := strings.ToLower(query)

	var picked []ResourceEntry
	if rule, ok := classify(q); ok {
		picked = s.filterByMarkers(rule.markers)
	}
	if len(picked) == 0 {
		picked = s.catalog.Entries()
		if len(picked) > fallbackPoolSize {
			picked = picked[:fallbackPoolSize]
		}
	}
	if len(picked) > maxRecommendations {
		picked = picked[:maxRecommendations]
	}
	return picked
}

func classify(loweredQuery string) (categoryRule, bool) {
	for _, rule := range categoryRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(loweredQuery, trigger) {
				return rule, true
			}
		}
	}
	return categoryRule{}, false
}

func (s *Selector) filterByMarkers(markers []string) []ResourceEntry {
	var out []ResourceEntry
	for _, e := range s.catalog.Entries() {
		title := strings.ToLower(e.Title)
		desc := strings.ToLower(e.Description)
		for _, m := range markers {
			if strings.Contains(title, m) || strings.Contains(desc, m) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
