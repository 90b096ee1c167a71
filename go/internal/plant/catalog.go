package plant

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed species.yaml
var speciesYAML []byte

// Species is one growable flower
type Species struct {
	ID     int    `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Color  string `yaml:"color" json:"color"`
	Center string `yaml:"center" json:"center"`
}

// Catalog is the fixed set of species, ordered by id
type Catalog struct {
	species []Species
	byID    map[int]Species
}

// DefaultCatalog loads the embedded species list
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(speciesYAML)
}

// LoadCatalog parses a YAML species list. Ids must be positive and unique.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc struct {
		Species []Species `yaml:"species"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse species catalog: %w", err)
	}
	if len(doc.Species) == 0 {
		return nil, fmt.Errorf("species catalog is empty")
	}

	c := &Catalog{
		species: doc.Species,
		byID:    make(map[int]Species, len(doc.Species)),
	}
	for _, s := range doc.Species {
		if s.ID <= 0 {
			return nil, fmt.Errorf("species %q has invalid id %d", s.Name, s.ID)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate species id %d", s.ID)
		}
		c.byID[s.ID] = s
	}
	sort.Slice(c.species, func(i, j int) bool { return c.species[i].ID < c.species[j].ID })
	return c, nil
}

// Lookup returns the species with the given id
func (c *Catalog) Lookup(id int) (Species, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// All returns every species ordered by id
func (c *Catalog) All() []Species {
	out := make([]Species, len(c.species))
	copy(out, c.species)
	return out
}

// Len returns the number of species
func (c *Catalog) Len() int {
	return len(c.species)
}

// Choose picks the species for a new plant.
//
// A requested species that is still locked is kept. An unknown, missing or
// already unlocked request is replaced by a uniformly random locked species.
// Once every species is unlocked the request is kept, or a random species is
// used when there is no valid request.
func (c *Catalog) Choose(requested int, unlocked map[int]bool, intn func(int) int) Species {
	if s, ok := c.byID[requested]; ok && !unlocked[s.ID] {
		return s
	}

	locked := make([]Species, 0, len(c.species))
	for _, s := range c.species {
		if !unlocked[s.ID] {
			locked = append(locked, s)
		}
	}
	if len(locked) > 0 {
		return locked[intn(len(locked))]
	}

	if s, ok := c.byID[requested]; ok {
		return s
	}
	return c.species[intn(len(c.species))]
}
