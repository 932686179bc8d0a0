// Package inventory tracks how many of each building spec are still
// available for placement.
package inventory

import (
	"errors"
	"fmt"

	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

// ErrOutOfStock is returned when a placement is requested with nothing left.
var ErrOutOfStock = errors.New("out of stock")

// Entry is one inventory row: the spec and what is left of it.
type Entry struct {
	models.BuildingSpec
	Remaining int `json:"count"`
}

// Inventory holds the remaining count per spec key. Counts never go below zero.
type Inventory struct {
	catalog   *catalog.Catalog
	remaining map[string]int
}

// New creates an inventory with every spec at its initial count.
func New(cat *catalog.Catalog) *Inventory {
	inv := &Inventory{catalog: cat}
	inv.Reset()
	return inv
}

// Catalog returns the catalog the inventory was built from.
func (inv *Inventory) Catalog() *catalog.Catalog { return inv.catalog }

// Reset restores full stock.
func (inv *Inventory) Reset() {
	inv.remaining = make(map[string]int, inv.catalog.Len())
	for _, e := range inv.catalog.Entries() {
		inv.remaining[e.Key] = e.Count
	}
}

// Remaining returns the count left for key.
func (inv *Inventory) Remaining(key string) int {
	return inv.remaining[key]
}

// Take consumes one unit of key.
func (inv *Inventory) Take(key string) error {
	if _, ok := inv.catalog.Lookup(key); !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownSpec, key)
	}
	if inv.remaining[key] <= 0 {
		return fmt.Errorf("%w: %s", ErrOutOfStock, key)
	}
	inv.remaining[key]--
	return nil
}

// Return gives one unit of key back.
func (inv *Inventory) Return(key string) error {
	if _, ok := inv.catalog.Lookup(key); !ok {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownSpec, key)
	}
	inv.remaining[key]++
	return nil
}

// Recount recomputes stock from full counts minus one per placed token with
// the same key. A key missing from the catalog fails the whole recount and
// leaves the inventory unchanged. Counts that would go negative are clamped
// to zero and reported in the returned list of keys.
func (inv *Inventory) Recount(placed []models.PlacedToken) (clamped []string, err error) {
	next := make(map[string]int, inv.catalog.Len())
	for _, e := range inv.catalog.Entries() {
		next[e.Key] = e.Count
	}
	for _, t := range placed {
		if _, ok := next[t.Key]; !ok {
			return nil, fmt.Errorf("%w: %q (token %s)", catalog.ErrUnknownSpec, t.Key, t.ID)
		}
		next[t.Key]--
	}
	for _, k := range inv.catalog.Keys() {
		if next[k] < 0 {
			next[k] = 0
			clamped = append(clamped, k)
		}
	}
	inv.remaining = next
	return clamped, nil
}

// Snapshot lists every spec with its remaining count, in catalog order.
func (inv *Inventory) Snapshot() []Entry {
	entries := inv.catalog.Entries()
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{BuildingSpec: e.BuildingSpec, Remaining: inv.remaining[e.Key]})
	}
	return out
}
