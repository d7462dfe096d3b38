package social

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ErrUnknownArchetype is returned when a lookup names no archetype.
var ErrUnknownArchetype = errors.New("unknown faction archetype")

// Catalog is the fixed, ordered set of faction archetypes.
type Catalog struct {
	Archetypes []*Archetype `yaml:"archetypes"`

	byName map[string]*Archetype
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog file. An empty path yields the embedded catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return NewCatalog(c.Archetypes...)
}

// NewCatalog builds a catalog from archetypes in the given order.
func NewCatalog(archetypes ...*Archetype) (*Catalog, error) {
	c := &Catalog{
		Archetypes: archetypes,
		byName:     make(map[string]*Archetype, len(archetypes)),
	}
	players := 0
	for _, a := range archetypes {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byName[a.Name]; dup {
			return nil, fmt.Errorf("duplicate archetype %q", a.Name)
		}
		if a.IsPlayer {
			players++
		}
		c.byName[a.Name] = a
	}
	if players > 1 {
		return nil, fmt.Errorf("catalog has %d player archetypes, want at most 1", players)
	}
	return c, nil
}

// Get returns the archetype with the exact name, or nil.
func (c *Catalog) Get(name string) *Archetype {
	return c.byName[name]
}

// Player returns the player archetype, or nil if the catalog has none.
func (c *Catalog) Player() *Archetype {
	for _, a := range c.Archetypes {
		if a.IsPlayer {
			return a
		}
	}
	return nil
}

// Lookup resolves a user-supplied name. Case and separators are forgiven;
// a miss suggests the closest archetype name.
func (c *Catalog) Lookup(name string) (*Archetype, error) {
	key := normaliseName(name)
	if a := c.byName[key]; a != nil {
		return a, nil
	}

	best, bestDist := "", -1
	for _, a := range c.Archetypes {
		dist := levenshtein.ComputeDistance(key, a.Name)
		if dist > suggestLimit(len(a.Name)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = a.Name, dist
		}
	}
	if best != "" {
		return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownArchetype, name, best)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownArchetype, name)
}

func normaliseName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(name)
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
