package editor

import "log"

// Select toggles the selection of id and deselects every other token.
// Selecting a 1x1 wall makes it the chain anchor; anything else clears it.
func (e *Editor) Select(id string) {
	i := e.indexOf(id)
	if i < 0 {
		return
	}
	for j := range e.placed {
		if j == i {
			e.placed[j].Selected = !e.placed[j].Selected
		} else {
			e.placed[j].Selected = false
		}
	}
	t := e.placed[i]
	if t.Selected && t.IsWall() {
		e.anchorID = t.ID
	} else {
		e.anchorID = ""
	}
	selected := ""
	if t.Selected {
		selected = t.ID
	}
	e.publish(Event{Type: EventSelect, TokenID: selected})
}

// Deselect clears the selection and the anchor.
func (e *Editor) Deselect() {
	for j := range e.placed {
		e.placed[j].Selected = false
	}
	e.anchorID = ""
	e.arrowHover = nil
	e.publish(Event{Type: EventSelect})
}

// Remove deletes a placed token and returns its stock. It reports whether the
// token existed.
func (e *Editor) Remove(id string) bool {
	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	t := e.placed[i]
	if e.mode == ModeDragging && e.dragSrc.ID == id {
		e.endDrag()
	}
	if err := e.inventory.Return(t.Key); err != nil {
		log.Printf("[editor] remove %s: %v", id, err)
	}
	e.placed = append(e.placed[:i:i], e.placed[i+1:]...)
	e.grid.Mark(t, "")
	if e.anchorID == id {
		e.anchorID = ""
	}
	if e.hoverID == id {
		e.hoverID = ""
		if e.mode == ModeHover {
			e.mode = ModeIdle
		}
	}
	if e.arrowHover != nil && e.arrowHover.TokenID == id {
		e.arrowHover = nil
	}
	e.changed()
	e.publish(Event{Type: EventRemove, TokenID: id, Token: tokenRef(t)})
	return true
}
