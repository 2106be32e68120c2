package catalog

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// ResourceEntry is one recommendable support resource. Immutable after load.
type ResourceEntry struct {
	Title       string `yaml:"title" json:"title"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
}

// Catalog is the fixed ordered registry of recommendable resources, loaded
// once at startup and never mutated afterwards.
type Catalog struct {
	entries []ResourceEntry
}

type catalogFile struct {
	Resources []ResourceEntry `yaml:"resources"`
}

// Load parses and validates the embedded catalog.
func Load() (*Catalog, error) {
	return parse(catalogYAML)
}

func parse(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("catalog parse: %w", err)
	}
	if len(f.Resources) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	for i, e := range f.Resources {
		if strings.TrimSpace(e.Title) == "" {
			return nil, fmt.Errorf("catalog entry %d: missing title", i)
		}
		u, err := url.Parse(e.URL)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return nil, fmt.Errorf("catalog entry %d (%s): url must be absolute https, got %q", i, e.Title, e.URL)
		}
	}
	return &Catalog{entries: f.Resources}, nil
}

// Entries returns the catalog in registration order.
func (c *Catalog) Entries() []ResourceEntry {
	out := make([]ResourceEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int { return len(c.entries) }
