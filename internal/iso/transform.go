// Package iso maps between the integer building grid and screen pixels for a
// 2:1 diamond (isometric) projection.
package iso

import "github.com/gravitas-games/baseplanner/pkg/models"

// Point is a screen position in CSS pixels.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px <= r.X+r.W && py >= r.Y && py <= r.Y+r.H
}

// Transform holds the projection constants. TileHalfWidth is half the width
// of one cell's diamond; the diamond is half as tall as it is wide.
// Device pixel ratio scaling belongs to the rendering surface.
type Transform struct {
	TileHalfWidth float64
	CanvasWidth   float64
	TopPadding    float64

	// Wall arrow geometry; zero means DefaultArrowSize and DefaultArrowGap.
	ArrowSize float64
	ArrowGap  float64
}

// New creates a transform for the given tile half-width, canvas width and top padding.
func New(tileHalfWidth, canvasWidth, topPadding float64) Transform {
	return Transform{
		TileHalfWidth: tileHalfWidth,
		CanvasWidth:   canvasWidth,
		TopPadding:    topPadding,
	}
}

// GridToScreen converts grid coordinates (possibly fractional) to pixels.
func (t Transform) GridToScreen(gx, gy float64) (px, py float64) {
	px = (gx-gy)*t.TileHalfWidth + t.CanvasWidth/2
	py = (gx+gy)*t.TileHalfWidth*0.5 + t.TopPadding
	return
}

// ScreenToGrid is the exact inverse of GridToScreen. The result is
// fractional; callers round and clamp as they need.
func (t Transform) ScreenToGrid(px, py float64) (gx, gy float64) {
	sx := (px - t.CanvasWidth/2) / t.TileHalfWidth
	sy := (py - t.TopPadding) / (t.TileHalfWidth * 0.5)
	gx = (sx + sy) / 2
	gy = (sy - sx) / 2
	return
}

// FootprintCenter returns the screen position of the centre of a size x size
// footprint whose origin is (x, y).
func (t Transform) FootprintCenter(x, y, size int) Point {
	half := float64(size) / 2
	px, py := t.GridToScreen(float64(x)+half, float64(y)+half)
	return Point{X: px, Y: py}
}

// Diamond returns the top, right, bottom and left vertices of a footprint.
func (t Transform) Diamond(x, y, size int) [4]Point {
	c := t.FootprintCenter(x, y, size)
	halfW := t.TileHalfWidth * float64(size)
	halfH := halfW * 0.5
	return [4]Point{
		{X: c.X, Y: c.Y - halfH},
		{X: c.X + halfW, Y: c.Y},
		{X: c.X, Y: c.Y + halfH},
		{X: c.X - halfW, Y: c.Y},
	}
}

// HitBox is the axis-aligned box around a footprint's diamond. It
// over-approximates the diamond: the four corners outside the diamond still
// count as hits.
func (t Transform) HitBox(x, y, size int) Rect {
	c := t.FootprintCenter(x, y, size)
	halfW := t.TileHalfWidth * float64(size)
	halfH := halfW * 0.5
	return Rect{X: c.X - halfW, Y: c.Y - halfH, W: 2 * halfW, H: 2 * halfH}
}

// HitTest reports whether the pointer is strictly inside the hit box of a
// footprint.
func (t Transform) HitTest(px, py float64, x, y, size int) bool {
	r := t.HitBox(x, y, size)
	return px > r.X && px < r.X+r.W && py > r.Y && py < r.Y+r.H
}

// Arrow hit zones drawn around a selected wall, in pixels.
const (
	DefaultArrowSize = 24.0
	DefaultArrowGap  = 10.0
)

// WallArrow is the clickable zone that extends a wall chain in Dir.
type WallArrow struct {
	Dir  models.Direction
	Rect Rect
}

// WallArrows returns the four arrow zones around the 1x1 cell at (x, y),
// each pushed the arrow gap outside the diamond.
func (t Transform) WallArrows(x, y int) []WallArrow {
	s, gap := t.ArrowSize, t.ArrowGap
	if s <= 0 {
		s = DefaultArrowSize
	}
	if gap <= 0 {
		gap = DefaultArrowGap
	}
	c := t.FootprintCenter(x, y, 1)
	padX := t.TileHalfWidth + gap
	padY := t.TileHalfWidth*0.5 + gap
	return []WallArrow{
		{Dir: models.North, Rect: Rect{X: c.X - s/2, Y: c.Y - padY - s, W: s, H: s}},
		{Dir: models.East, Rect: Rect{X: c.X + padX, Y: c.Y - s/2, W: s, H: s}},
		{Dir: models.South, Rect: Rect{X: c.X - s/2, Y: c.Y + padY, W: s, H: s}},
		{Dir: models.West, Rect: Rect{X: c.X - padX - s, Y: c.Y - s/2, W: s, H: s}},
	}
}

// RangeEllipse returns the horizontal and vertical radii of the ellipse
// that represents a range of radius cells.
func (t Transform) RangeEllipse(radius float64) (rx, ry float64) {
	rx = radius * t.TileHalfWidth * 1.414
	ry = rx * 0.5
	return
}
