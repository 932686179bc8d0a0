package editor

import (
	"log"

	"github.com/gravitas-games/baseplanner/internal/inventory"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

// MaxChainStep is the number of walls one expand request may add.
const MaxChainStep = 2

// RequestDirectionalExpand grows a wall chain from the anchor, or from id when
// there is no usable anchor, by up to MaxChainStep cells in dir. It stops at
// the first occupied or off-board cell or when wall stock runs out, and
// returns the ids of the walls it placed.
func (e *Editor) RequestDirectionalExpand(id string, dir models.Direction) []string {
	if e.mode == ModeDragging {
		log.Printf("[expand] ignored while dragging %s", e.dragSrc.ID)
		return nil
	}
	if !dir.Valid() {
		log.Printf("[expand] unknown direction %q", dir)
		return nil
	}
	base, ok := e.expandBase(id)
	if !ok {
		log.Printf("[expand] %v: anchor=%q id=%q", ErrInvalidBase, e.anchorID, id)
		return nil
	}
	spec, err := e.catalog.Spec(base.Key)
	if err != nil {
		log.Printf("[expand] %v", err)
		return nil
	}

	dx, dy := dir.Step()
	x, y := base.X, base.Y
	var added []string
	for step := 0; step < MaxChainStep; step++ {
		x += dx
		y += dy
		if e.inventory.Remaining(base.Key) <= 0 {
			log.Printf("[expand] %v: %s", inventory.ErrOutOfStock, base.Key)
			break
		}
		if err := e.grid.Check(x, y, 1, ""); err != nil {
			log.Printf("[expand] blocked at (%d,%d): %v", x, y, err)
			break
		}
		if err := e.inventory.Take(base.Key); err != nil {
			log.Printf("[expand] %v", err)
			break
		}
		wall := models.NewToken(e.newID(), spec, x, y)
		e.placed = append(e.placed, wall)
		e.grid.Mark(wall, wall.ID)
		added = append(added, wall.ID)
	}
	if len(added) == 0 {
		log.Printf("[expand] nothing placed from %s towards %s", base.ID, dir)
		return nil
	}

	last := added[len(added)-1]
	for j := range e.placed {
		e.placed[j].Selected = e.placed[j].ID == last
	}
	e.anchorID = last
	e.arrowHover = nil
	e.changed()
	t, _ := e.Token(last)
	e.publish(Event{Type: EventExpand, TokenID: last, Token: tokenRef(t), Direction: dir, Placed: added})
	return added
}

func (e *Editor) expandBase(id string) (models.PlacedToken, bool) {
	if t, ok := e.Token(e.anchorID); ok && t.IsWall() {
		return t, true
	}
	if t, ok := e.Token(id); ok && t.IsWall() {
		return t, true
	}
	return models.PlacedToken{}, false
}
