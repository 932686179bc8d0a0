package models

// WallClass is the visual class of tokens the wall-chain extender works with.
const WallClass = "wall"

// GhostID is the sentinel identifier carried by a token that is being placed
// from the inventory and has not been committed yet.
const GhostID = "ghost"

// BuildingSpec describes what can be placed. It is a template, not an instance.
type BuildingSpec struct {
	Key    string  `json:"key" yaml:"key"`
	Name   string  `json:"name" yaml:"name"`
	Size   int     `json:"size" yaml:"size"`     // footprint side in cells
	Radius float64 `json:"radius" yaml:"radius"` // range in cells, may be fractional
	Class  string  `json:"cls" yaml:"cls"`
}

// PlacedToken is a building instance on the board.
type PlacedToken struct {
	ID       string  `json:"id"`
	Key      string  `json:"key"`
	X        int     `json:"x"` // footprint origin (top-left in grid space)
	Y        int     `json:"y"`
	Size     int     `json:"size"`
	Radius   float64 `json:"radius"`
	Class    string  `json:"cls"`
	Selected bool    `json:"selected"`
}

// NewToken creates an unselected token of spec at (x, y).
func NewToken(id string, spec BuildingSpec, x, y int) PlacedToken {
	return PlacedToken{
		ID:     id,
		Key:    spec.Key,
		X:      x,
		Y:      y,
		Size:   spec.Size,
		Radius: spec.Radius,
		Class:  spec.Class,
	}
}

// IsWall reports whether the token is a 1x1 wall, the only kind of token
// that can anchor a wall chain.
func (t PlacedToken) IsWall() bool {
	return t.Class == WallClass && t.Size == 1
}

// IsGhost reports whether the token is an uncommitted inventory placement.
func (t PlacedToken) IsGhost() bool {
	return t.ID == GhostID
}

// Covers reports whether cell (x, y) lies inside the token's footprint.
func (t PlacedToken) Covers(x, y int) bool {
	return x >= t.X && x < t.X+t.Size && y >= t.Y && y < t.Y+t.Size
}

// Overlaps reports whether two footprints share at least one cell.
func (t PlacedToken) Overlaps(o PlacedToken) bool {
	return t.X < o.X+o.Size && t.X+t.Size > o.X &&
		t.Y < o.Y+o.Size && t.Y+t.Size > o.Y
}

// At returns a copy of the token moved to (x, y).
func (t PlacedToken) At(x, y int) PlacedToken {
	t.X, t.Y = x, y
	return t
}
