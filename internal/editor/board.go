package editor

import (
	"fmt"
	"log"

	"github.com/gravitas-games/baseplanner/internal/inventory"
	"github.com/gravitas-games/baseplanner/internal/layout"
	"github.com/gravitas-games/baseplanner/internal/occupancy"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

// Reset empties the board and restores full stock.
func (e *Editor) Reset() {
	e.inventory.Reset()
	e.placed = nil
	e.grid.Rebuild(nil)
	e.clearTransient()
	e.changed()
	e.publish(Event{Type: EventReset})
}

// Export returns the placed tokens as a snapshot, in insertion order.
func (e *Editor) Export() layout.Snapshot {
	return layout.FromTokens(e.placed)
}

// Import replaces the board with the snapshot. Every record is validated
// before anything changes; on error the editor is untouched.
func (e *Editor) Import(s layout.Snapshot) error {
	tokens := s.Tokens()
	check := occupancy.New(e.grid.Size())
	seen := make(map[string]bool, len(tokens))
	for i := range tokens {
		t := &tokens[i]
		spec, err := e.catalog.Spec(t.Key)
		if err != nil {
			return fmt.Errorf("import record %d: %w", i, err)
		}
		if t.ID == "" || t.ID == models.GhostID {
			t.ID = e.newID()
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidLayout, t.ID)
		}
		seen[t.ID] = true
		if t.Size <= 0 {
			t.Size = spec.Size
		}
		if t.Class == "" {
			t.Class = spec.Class
		}
		if t.Radius == 0 {
			t.Radius = spec.Radius
		}
		if err := check.Check(t.X, t.Y, t.Size, ""); err != nil {
			return fmt.Errorf("%w: record %d (%s): %v", ErrInvalidLayout, i, t.ID, err)
		}
		check.Mark(*t, t.ID)
	}

	clamped, err := e.inventory.Recount(tokens)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	for _, key := range clamped {
		log.Printf("[editor] import places more %s than the catalog allows; stock clamped to 0", key)
	}

	e.placed = tokens
	e.grid.Rebuild(e.placed)
	e.clearTransient()
	e.changed()
	e.publish(Event{Type: EventLoad})
	return nil
}

// SetGridSize resizes the board. A size that would cut off a placed token is
// rejected. A drag in progress is cancelled.
func (e *Editor) SetGridSize(n int) error {
	if n < 1 || n > occupancy.MaxSize {
		return fmt.Errorf("%w: grid size %d outside 1..%d", ErrInvalidLayout, n, occupancy.MaxSize)
	}
	for _, t := range e.placed {
		if t.X+t.Size > n || t.Y+t.Size > n {
			return fmt.Errorf("%w: token %s at (%d,%d) does not fit a %dx%d grid", ErrInvalidLayout, t.ID, t.X, t.Y, n, n)
		}
	}
	if e.mode == ModeDragging {
		id := e.dragSrc.ID
		e.endDrag()
		e.publish(Event{Type: EventCancelDrag, TokenID: id})
	}
	e.grid.Resize(n)
	e.grid.Rebuild(e.placed)
	e.changed()
	return nil
}

func (e *Editor) clearTransient() {
	e.endDrag()
	e.hoverID = ""
	e.arrowHover = nil
	e.anchorID = ""
}

// AutoPlace places one key at the first free origin, scanning row-major. It
// refuses while a drag is in progress.
func (e *Editor) AutoPlace(key string) (string, error) {
	if e.mode == ModeDragging {
		return "", fmt.Errorf("auto-place %s: drag in progress", key)
	}
	spec, err := e.catalog.Spec(key)
	if err != nil {
		return "", err
	}
	if e.inventory.Remaining(key) <= 0 {
		return "", fmt.Errorf("%w: %s", inventory.ErrOutOfStock, key)
	}
	x, y, ok := e.grid.FirstFit(spec.Size)
	if !ok {
		return "", fmt.Errorf("%w: no room for %s", occupancy.ErrCollision, key)
	}
	if err := e.inventory.Take(key); err != nil {
		return "", err
	}
	t := models.NewToken(e.newID(), spec, x, y)
	e.placed = append(e.placed, t)
	e.grid.Mark(t, t.ID)
	e.changed()
	e.publish(Event{Type: EventPlace, TokenID: t.ID, Token: tokenRef(t)})
	return t.ID, nil
}
