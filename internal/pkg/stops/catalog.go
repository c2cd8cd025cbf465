// Package stops loads the named boarding stops used for arrival estimates.
package stops

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/piresc/busfleet/internal/pkg/models"
	"gopkg.in/yaml.v3"
)

type file struct {
	Stops []models.Stop `yaml:"stops" validate:"dive"`
}

// Catalog resolves stop names to coordinates. Lookups ignore case and
// surrounding whitespace.
type Catalog struct {
	byName map[string]models.Stop
}

// NewCatalog builds a catalog from stops, rejecting duplicate names
func NewCatalog(stops []models.Stop) (*Catalog, error) {
	v := validator.New()
	c := &Catalog{byName: make(map[string]models.Stop, len(stops))}
	for _, s := range stops {
		if err := v.Struct(s); err != nil {
			return nil, fmt.Errorf("invalid stop %q: %w", s.Name, err)
		}
		key := normalize(s.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("duplicate stop %q", s.Name)
		}
		c.byName[key] = s
	}
	return c, nil
}

// Parse reads a YAML document of the form `stops: [{name, latitude, longitude}]`
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stop catalog: %w", err)
	}
	return NewCatalog(f.Stops)
}

// Load reads and parses the catalog at path. A missing file yields an empty catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewCatalog(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stop catalog: %w", err)
	}
	return Parse(data)
}

// Lookup finds a stop by name
func (c *Catalog) Lookup(name string) (models.Stop, bool) {
	s, ok := c.byName[normalize(name)]
	return s, ok
}

// All returns every stop sorted by name
func (c *Catalog) All() []models.Stop {
	out := make([]models.Stop, 0, len(c.byName))
	for _, s := range c.byName {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of stops
func (c *Catalog) Len() int {
	return len(c.byName)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
