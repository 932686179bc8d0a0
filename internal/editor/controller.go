package editor

import (
	"errors"
	"log"
	"math"

	"github.com/gravitas-games/baseplanner/internal/inventory"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

var errNoPreview = errors.New("pointer released before any preview")

// BeginPlacementFromInventory starts dragging a ghost of key. It returns false
// and changes nothing when the key is unknown, out of stock, or a drag is
// already in progress.
func (e *Editor) BeginPlacementFromInventory(key string) bool {
	if e.mode == ModeDragging {
		log.Printf("[editor] begin %s ignored: already dragging %s", key, e.dragSrc.ID)
		return false
	}
	spec, err := e.catalog.Spec(key)
	if err != nil {
		log.Printf("[editor] begin: %v", err)
		return false
	}
	if e.inventory.Remaining(key) <= 0 {
		log.Printf("[editor] begin: %v: %s", inventory.ErrOutOfStock, key)
		return false
	}
	e.startDrag(models.NewToken(models.GhostID, spec, 0, 0))
	return true
}

// PointerDown handles a button press at screen position (px, py).
func (e *Editor) PointerDown(px, py float64, b Button) {
	if e.mode == ModeDragging {
		return
	}
	if b == ButtonPrimary {
		if a, ok := e.arrowAt(px, py); ok {
			log.Printf("[arrows] click %s %s", a.TokenID, a.Dir)
			e.RequestDirectionalExpand(a.TokenID, a.Dir)
			return
		}
	}

	id := e.HitTest(px, py)
	switch b {
	case ButtonSecondary:
		if id != "" {
			e.Remove(id)
			e.publish(Event{Type: EventCancelDrag})
		}
	case ButtonPrimary:
		if id == "" {
			if e.SelectedID() != "" {
				e.Deselect()
			}
			return
		}
		e.Select(id)
		t := e.placed[e.indexOf(id)]
		e.grid.Mark(t, "")
		e.startDrag(t)
	}
}

// PointerMove updates the drag preview, or the hover state when idle.
func (e *Editor) PointerMove(px, py float64) {
	if e.mode == ModeDragging {
		src := e.dragSrc
		gx, gy := e.transform.ScreenToGrid(px, py)
		limit := e.grid.Size() - src.Size
		x := clamp(roundHalfUp(gx-float64(src.Size)/2), 0, limit)
		y := clamp(roundHalfUp(gy-float64(src.Size)/2), 0, limit)
		preview := src.At(x, y)
		e.ghost = &preview
		e.previewed = true
		e.bus.Publish(Event{Type: EventMove, TokenID: src.ID, Token: tokenRef(preview)})
		return
	}

	e.updateArrowHover(px, py)
	e.hoverID = e.HitTest(px, py)
	if e.hoverID != "" {
		e.mode = ModeHover
	} else {
		e.mode = ModeIdle
	}
}

// PointerUp ends a drag: the last preview is committed when the grid accepts
// it, otherwise the drag is reverted.
func (e *Editor) PointerUp(px, py float64) {
	if e.mode != ModeDragging {
		return
	}
	src := e.dragSrc

	var err error
	if !e.previewed || e.ghost == nil {
		err = errNoPreview
	} else {
		err = e.grid.Check(e.ghost.X, e.ghost.Y, src.Size, src.ID)
	}
	if err == nil {
		err = e.commit(*e.ghost)
	}
	if err != nil {
		if !errors.Is(err, errNoPreview) {
			log.Printf("[editor] drop of %s rejected: %v", src.ID, err)
		}
		if !src.IsGhost() {
			e.grid.Mark(src, src.ID)
		}
		e.endDrag()
		e.publish(Event{Type: EventCancelDrag, TokenID: src.ID})
		return
	}
	e.endDrag()
}

// PointerLeave cancels any drag and clears hover.
func (e *Editor) PointerLeave() {
	e.hoverID = ""
	e.arrowHover = nil
	if e.mode == ModeDragging {
		id := e.dragSrc.ID
		e.endDrag()
		e.grid.Rebuild(e.placed)
		e.publish(Event{Type: EventCancelDrag, TokenID: id})
		return
	}
	e.mode = ModeIdle
}

// HitTest returns the topmost placed token under the pointer, or "".
func (e *Editor) HitTest(px, py float64) string {
	for i := len(e.placed) - 1; i >= 0; i-- {
		t := e.placed[i]
		if e.transform.HitTest(px, py, t.X, t.Y, t.Size) {
			return t.ID
		}
	}
	return ""
}

func (e *Editor) commit(target models.PlacedToken) error {
	src := e.dragSrc
	if src.IsGhost() {
		if err := e.inventory.Take(src.Key); err != nil {
			return err
		}
		t := target
		t.ID = e.newID()
		t.Selected = false
		e.placed = append(e.placed, t)
		e.grid.Mark(t, t.ID)
		e.changed()
		e.publish(Event{Type: EventPlace, TokenID: t.ID, Token: tokenRef(t)})
		return nil
	}

	i := e.indexOf(src.ID)
	if i < 0 {
		return ErrInvalidBase
	}
	e.placed[i].X, e.placed[i].Y = target.X, target.Y
	e.grid.Mark(e.placed[i], src.ID)
	e.changed()
	e.publish(Event{Type: EventPlace, TokenID: src.ID, Token: tokenRef(e.placed[i])})
	return nil
}

func (e *Editor) startDrag(src models.PlacedToken) {
	e.mode = ModeDragging
	e.dragSrc = src
	e.ghost = nil
	e.previewed = false
	e.arrowHover = nil
}

func (e *Editor) endDrag() {
	e.mode = ModeIdle
	e.dragSrc = models.PlacedToken{}
	e.ghost = nil
	e.previewed = false
}

// arrowAt returns the wall arrow of the selected 1x1 wall under the pointer.
func (e *Editor) arrowAt(px, py float64) (ArrowHover, bool) {
	id := e.SelectedID()
	t, ok := e.Token(id)
	if !ok || !t.IsWall() {
		return ArrowHover{}, false
	}
	for _, a := range e.transform.WallArrows(t.X, t.Y) {
		if a.Rect.Contains(px, py) {
			return ArrowHover{TokenID: t.ID, Dir: a.Dir}, true
		}
	}
	return ArrowHover{}, false
}

func (e *Editor) updateArrowHover(px, py float64) {
	a, ok := e.arrowAt(px, py)
	switch {
	case ok && (e.arrowHover == nil || *e.arrowHover != a):
		log.Printf("[arrows] enter %s %s", a.TokenID, a.Dir)
		e.arrowHover = &a
	case !ok && e.arrowHover != nil:
		log.Printf("[arrows] leave %s %s", e.arrowHover.TokenID, e.arrowHover.Dir)
		e.arrowHover = nil
	}
}

// roundHalfUp rounds halves towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
