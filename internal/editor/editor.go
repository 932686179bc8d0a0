// Package editor owns the layout state and the interaction state machine:
// placement from inventory, dragging, selection, removal and wall chains.
package editor

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/internal/inventory"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/internal/occupancy"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

var (
	// ErrInvalidBase is reported when a wall chain has no 1x1 wall to grow from.
	ErrInvalidBase = errors.New("no valid wall to extend")
	// ErrInvalidLayout is returned when an imported layout or a grid resize
	// would leave tokens overlapping, duplicated or off the board.
	ErrInvalidLayout = errors.New("invalid layout")
)

// Default board constants.
const (
	DefaultGridSize      = 60
	DefaultTileHalfWidth = 22.0
	DefaultCanvasWidth   = 1280.0
	DefaultTopPadding    = 50.0
)

// Mode is the controller state.
type Mode int

const (
	ModeIdle Mode = iota
	ModeHover
	ModeDragging
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeHover:
		return "hover"
	case ModeDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Button identifies the pointer button of a PointerDown.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

// ArrowHover names the wall arrow under the pointer.
type ArrowHover struct {
	TokenID string
	Dir     models.Direction
}

// Editor holds one layout and its interaction state. It is not safe for
// concurrent use: a surface owns one editor and calls it from its loop.
type Editor struct {
	catalog   *catalog.Catalog
	inventory *inventory.Inventory
	grid      *occupancy.Grid
	transform iso.Transform
	bus       Bus
	newID     func() string

	placed  []models.PlacedToken
	version uint64

	mode      Mode
	dragSrc   models.PlacedToken // token being dragged, at its original position
	ghost     *models.PlacedToken
	previewed bool

	hoverID    string
	arrowHover *ArrowHover
	anchorID   string
}

// Option configures an Editor.
type Option func(*Editor)

// WithGridSize sets the board side length in cells, clamped to occupancy.MaxSize.
func WithGridSize(n int) Option {
	return func(e *Editor) {
		if n > 0 {
			e.grid = occupancy.New(n)
		}
	}
}

// WithTransform sets the projection.
func WithTransform(t iso.Transform) Option {
	return func(e *Editor) {
		e.transform = t
	}
}

// WithBus sets the notification bus.
func WithBus(b Bus) Option {
	return func(e *Editor) {
		if b != nil {
			e.bus = b
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new tokens.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New creates an empty editor with full stock.
func New(cat *catalog.Catalog, opts ...Option) *Editor {
	e := &Editor{
		catalog:   cat,
		inventory: inventory.New(cat),
		grid:      occupancy.New(DefaultGridSize),
		transform: iso.New(DefaultTileHalfWidth, DefaultCanvasWidth, DefaultTopPadding),
		bus:       NullBus{},
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the editor places from.
func (e *Editor) Catalog() *catalog.Catalog { return e.catalog }

// Bus returns the notification bus.
func (e *Editor) Bus() Bus { return e.bus }

// Transform returns the current projection.
func (e *Editor) Transform() iso.Transform { return e.transform }

// SetTransform replaces the projection. A drag keeps its last preview.
func (e *Editor) SetTransform(t iso.Transform) {
	e.transform = t
}

// SetCanvasWidth recentres the projection for a new surface width.
func (e *Editor) SetCanvasWidth(w float64) {
	if w <= 0 {
		return
	}
	e.transform.CanvasWidth = w
}

// GridSize returns the board side length.
func (e *Editor) GridSize() int { return e.grid.Size() }

// Mode returns the controller state.
func (e *Editor) Mode() Mode { return e.mode }

// Remaining returns the stock left for key.
func (e *Editor) Remaining(key string) int { return e.inventory.Remaining(key) }

// Token returns a copy of the placed token with the given id.
func (e *Editor) Token(id string) (models.PlacedToken, bool) {
	if i := e.indexOf(id); i >= 0 {
		return e.placed[i], true
	}
	return models.PlacedToken{}, false
}

// Placed returns a copy of the placed tokens in insertion order.
func (e *Editor) Placed() []models.PlacedToken {
	out := make([]models.PlacedToken, len(e.placed))
	copy(out, e.placed)
	return out
}

// AnchorID returns the wall the next chain grows from, or "".
func (e *Editor) AnchorID() string { return e.anchorID }

// SelectedID returns the selected token, or "".
func (e *Editor) SelectedID() string {
	for _, t := range e.placed {
		if t.Selected {
			return t.ID
		}
	}
	return ""
}

// CheckConsistency rebuilds a fresh grid from the placed tokens and compares
// it with the live one. Cells of a token being dragged are expected free.
func (e *Editor) CheckConsistency() error {
	fresh := occupancy.New(e.grid.Size())
	for _, t := range e.placed {
		if err := fresh.Check(t.X, t.Y, t.Size, ""); err != nil {
			return fmt.Errorf("token %s: %w", t.ID, err)
		}
		if e.mode == ModeDragging && t.ID == e.dragSrc.ID {
			continue
		}
		fresh.Mark(t, t.ID)
	}
	n := e.grid.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			want, _ := fresh.Owner(x, y)
			got, _ := e.grid.Owner(x, y)
			if want != got {
				return fmt.Errorf("cell (%d,%d): grid has %q, placed set has %q", x, y, got, want)
			}
		}
	}
	return nil
}

func (e *Editor) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range e.placed {
		if e.placed[i].ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) publish(ev Event) {
	log.Printf("[editor] %s %s", ev.Type, ev.TokenID)
	e.bus.Publish(ev)
}

// changed marks a structural change of the placed set.
func (e *Editor) changed() {
	e.version++
}

func tokenRef(t models.PlacedToken) *models.PlacedToken {
	return &t
}
