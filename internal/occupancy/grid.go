// Package occupancy tracks which placed token owns each cell of the board.
// The grid is a cache derived from the placed-token set: it can always be
// rebuilt from that set and is never the source of truth.
package occupancy

import (
	"errors"
	"fmt"

	"github.com/gravitas-games/baseplanner/pkg/models"
)

var (
	// ErrOutOfBounds is returned when a footprint would leave the board.
	ErrOutOfBounds = errors.New("footprint out of bounds")
	// ErrCollision is returned when a footprint overlaps another token.
	ErrCollision = errors.New("footprint collides with another token")
)

// CollisionError names the owner of the first blocking cell.
type CollisionError struct {
	X, Y  int
	Owner string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("cell (%d,%d) occupied by %s", e.X, e.Y, e.Owner)
}

// Unwrap lets errors.Is match ErrCollision.
func (e *CollisionError) Unwrap() error { return ErrCollision }

// Grid is a size x size matrix of cell owners. An empty string means the
// cell is free.
type Grid struct {
	size    int
	cells   []string
	version uint64
}

// MaxSize is the largest side length a grid can be created with.
const MaxSize = 1024

// New creates an empty grid. Sizes are clamped to [0, MaxSize].
func New(size int) *Grid {
	if size < 0 {
		size = 0
	}
	if size > MaxSize {
		size = MaxSize
	}
	return &Grid{
		size:  size,
		cells: make([]string, size*size),
	}
}

// Size returns the side length of the grid.
func (g *Grid) Size() int { return g.size }

// Version is bumped on every write.
func (g *Grid) Version() uint64 { return g.version }

// Owner returns the token id owning cell (x, y). ok is false when the cell
// is free or outside the grid.
func (g *Grid) Owner(x, y int) (owner string, ok bool) {
	if !g.inBounds(x, y) {
		return "", false
	}
	owner = g.cells[y*g.size+x]
	return owner, owner != ""
}

// CanPlace reports whether a size x size footprint at (x, y) lies inside the
// grid and overlaps no cell owned by anything other than excludeID.
func (g *Grid) CanPlace(x, y, size int, excludeID string) bool {
	return g.Check(x, y, size, excludeID) == nil
}

// Check is CanPlace with a reason: ErrOutOfBounds or a *CollisionError.
func (g *Grid) Check(x, y, size int, excludeID string) error {
	if size <= 0 || size > g.size || x < 0 || y < 0 || x > g.size-size || y > g.size-size {
		return fmt.Errorf("%w: origin (%d,%d) size %d on %dx%d grid", ErrOutOfBounds, x, y, size, g.size, g.size)
	}
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			id := g.cells[(y+j)*g.size+x+i]
			if id != "" && id != excludeID {
				return &CollisionError{X: x + i, Y: y + j, Owner: id}
			}
		}
	}
	return nil
}

// Mark writes owner into every cell of the token's footprint. Pass an empty
// owner to free the cells. Cells outside the grid are skipped.
func (g *Grid) Mark(t models.PlacedToken, owner string) {
	for j := 0; j < t.Size; j++ {
		for i := 0; i < t.Size; i++ {
			x, y := t.X+i, t.Y+j
			if !g.inBounds(x, y) {
				continue
			}
			g.cells[y*g.size+x] = owner
		}
	}
	g.version++
}

// Rebuild clears the grid and marks every token with its own id.
func (g *Grid) Rebuild(placed []models.PlacedToken) {
	g.clear()
	for _, t := range placed {
		g.Mark(t, t.ID)
	}
	g.version++
}

// Resize changes the side length and clears every cell.
func (g *Grid) Resize(size int) {
	if size < 0 {
		size = 0
	}
	if size > MaxSize {
		size = MaxSize
	}
	g.size = size
	g.cells = make([]string, size*size)
	g.version++
}

// FirstFit scans row-major and returns the first origin where a free
// size x size footprint fits.
func (g *Grid) FirstFit(size int) (x, y int, ok bool) {
	if size <= 0 || size > g.size {
		return 0, 0, false
	}
	for y = 0; y <= g.size-size; y++ {
		for x = 0; x <= g.size-size; x++ {
			if g.CanPlace(x, y, size, "") {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Free counts unowned cells.
func (g *Grid) Free() int {
	n := 0
	for _, id := range g.cells {
		if id == "" {
			n++
		}
	}
	return n
}

func (g *Grid) clear() {
	for i := range g.cells {
		g.cells[i] = ""
	}
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size && y < g.size
}
