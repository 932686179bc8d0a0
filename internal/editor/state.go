package editor

import (
	"github.com/gravitas-games/baseplanner/internal/inventory"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

// State is a read-only copy of everything a surface needs to draw a frame.
type State struct {
	GridSize  int
	Transform iso.Transform
	Mode      Mode
	Version   uint64

	Placed    []models.PlacedToken
	Inventory []inventory.Entry

	// Ghost is the drag preview, nil when nothing is being dragged or the
	// pointer has not moved since the drag began.
	Ghost      *models.PlacedToken
	GhostValid bool
	DraggingID string

	HoverID    string
	ArrowHover *ArrowHover
	SelectedID string
	AnchorID   string
}

// Snapshot copies the current state.
func (e *Editor) Snapshot() State {
	s := State{
		GridSize:   e.grid.Size(),
		Transform:  e.transform,
		Mode:       e.mode,
		Version:    e.version,
		Placed:     e.Placed(),
		Inventory:  e.inventory.Snapshot(),
		HoverID:    e.hoverID,
		SelectedID: e.SelectedID(),
		AnchorID:   e.anchorID,
	}
	if e.mode == ModeDragging {
		s.DraggingID = e.dragSrc.ID
	}
	if e.ghost != nil {
		g := *e.ghost
		s.Ghost = &g
		s.GhostValid = e.grid.CanPlace(g.X, g.Y, g.Size, e.dragSrc.ID)
	}
	if e.arrowHover != nil {
		a := *e.arrowHover
		s.ArrowHover = &a
	}
	return s
}

// Selected returns the selected token of the state, if any.
func (s State) Selected() (models.PlacedToken, bool) {
	for _, t := range s.Placed {
		if t.ID == s.SelectedID {
			return t, s.SelectedID != ""
		}
	}
	return models.PlacedToken{}, false
}
