// Package catalog holds the building specs that can be placed and how many of
// each the inventory starts with.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/gravitas-games/baseplanner/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrUnknownSpec is returned when a key is not in the catalog.
var ErrUnknownSpec = errors.New("unknown building spec")

// Entry is a spec together with its initial stock.
type Entry struct {
	models.BuildingSpec `yaml:",inline"`
	Count               int `yaml:"count"`
}

// Catalog is an ordered registry of building specs. Order is the insertion
// order and is what inventory listings follow.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// New builds a catalog from entries. Keys must be unique.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if err := c.Register(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register validates and appends an entry.
func (c *Catalog) Register(e Entry) error {
	if e.Key == "" {
		return errors.New("catalog: entry missing key")
	}
	if e.Size < 1 {
		return fmt.Errorf("catalog: %s: size must be positive, got %d", e.Key, e.Size)
	}
	if e.Radius < 0 {
		return fmt.Errorf("catalog: %s: radius must not be negative", e.Key)
	}
	if e.Count < 0 {
		return fmt.Errorf("catalog: %s: count must not be negative", e.Key)
	}
	if e.Name == "" {
		e.Name = e.Key
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[e.Key]; exists {
		return fmt.Errorf("catalog: duplicate key %s", e.Key)
	}
	c.entries[e.Key] = e
	c.order = append(c.order, e.Key)
	return nil
}

// Lookup returns the spec for key.
func (c *Catalog) Lookup(key string) (models.BuildingSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.BuildingSpec, ok
}

// Spec is Lookup returning ErrUnknownSpec for missing keys.
func (c *Catalog) Spec(key string) (models.BuildingSpec, error) {
	spec, ok := c.Lookup(key)
	if !ok {
		return models.BuildingSpec{}, fmt.Errorf("%w: %q", ErrUnknownSpec, key)
	}
	return spec, nil
}

// InitialCount returns the starting stock for key, zero if unknown.
func (c *Catalog) InitialCount(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key].Count
}

// Keys returns spec keys in catalog order.
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entries copies the catalog in order.
func (c *Catalog) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}

// Len returns the number of specs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

type file struct {
	Buildings []Entry `yaml:"buildings"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Buildings) == 0 {
		return nil, errors.New("catalog: no buildings defined")
	}
	return New(f.Buildings...)
}

// Load reads a YAML catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Marshal encodes the catalog as YAML in the format Parse reads.
func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(file{Buildings: c.Entries()})
}

// LoadOrDefault loads path, or returns the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
