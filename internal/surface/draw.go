package surface

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/internal/palette"
	"github.com/gravitas-games/baseplanner/pkg/models"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	whiteColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	sidebarColor  = color.RGBA{R: 0x14, G: 0x1b, B: 0x27, A: 0xff}
	selectedColor = color.RGBA{R: 0xfd, G: 0xcb, B: 0x57, A: 0xff}
	validColor    = color.RGBA{R: 0x38, G: 0xe0, B: 0x7b, A: 0xff}
)

const ellipseSegments = 48

// Draw implements ebiten.Game. It only reads the editor snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	s := g.editor.Snapshot()
	tr := s.Transform
	screen.Fill(palette.Background)

	g.drawGrid(screen, tr, s.GridSize)

	for _, t := range s.Placed {
		if t.ID == s.DraggingID {
			continue
		}
		if g.showRanges || t.ID == s.HoverID || t.Selected {
			g.drawRange(screen, tr, t)
		}
	}
	for _, t := range s.Placed {
		if t.ID == s.DraggingID {
			continue
		}
		outline := palette.Outline
		switch {
		case t.Selected:
			outline = selectedColor
		case t.ID == s.HoverID:
			outline = palette.Hover
		}
		g.drawToken(screen, tr, t, palette.ClassColor(t.Class), outline)
	}

	if s.Ghost != nil {
		outline := palette.Invalid
		if s.GhostValid {
			outline = validColor
		}
		g.drawRange(screen, tr, *s.Ghost)
		g.drawToken(screen, tr, *s.Ghost, palette.WithAlpha(palette.ClassColor(s.Ghost.Class), 0.6), outline)
	}

	if sel, ok := s.Selected(); ok && sel.IsWall() && s.Mode != editor.ModeDragging {
		g.drawArrows(screen, tr, sel, s.ArrowHover)
	}

	g.drawSidebar(screen, s)
	ebitenutil.DebugPrintAt(screen, g.status, 8, g.height-20)
}

func (g *Game) drawGrid(screen *ebiten.Image, tr iso.Transform, size int) {
	n := float64(size)
	for i := 0; i <= size; i++ {
		f := float64(i)
		ax, ay := tr.GridToScreen(0, f)
		bx, by := tr.GridToScreen(n, f)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1, palette.GridLine, false)
		ax, ay = tr.GridToScreen(f, 0)
		bx, by = tr.GridToScreen(f, n)
		vector.StrokeLine(screen, float32(ax), float32(ay), float32(bx), float32(by), 1, palette.GridLine, false)
	}
}

func (g *Game) drawToken(screen *ebiten.Image, tr iso.Transform, t models.PlacedToken, fill, outline color.RGBA) {
	d := tr.Diamond(t.X, t.Y, t.Size)
	g.fillQuad(screen, d, fill)
	for i := range d {
		a, b := d[i], d[(i+1)%len(d)]
		vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 2, outline, true)
	}

	c := tr.FootprintCenter(t.X, t.Y, t.Size)
	w := tr.TileHalfWidth * float64(t.Size) * 0.72
	h := math.Max(8, tr.TileHalfWidth*float64(t.Size)*0.6)
	vector.DrawFilledRect(screen, float32(c.X-w/2), float32(c.Y-h*0.4), float32(w), float32(h*0.3), palette.Tower, false)

	name := t.Key
	if spec, ok := g.editor.Catalog().Lookup(t.Key); ok {
		name = spec.Name
	}
	label := palette.Abbrev(name)
	ebitenutil.DebugPrintAt(screen, label, int(c.X)-3*len(label), int(c.Y)-8)
}

func (g *Game) drawRange(screen *ebiten.Image, tr iso.Transform, t models.PlacedToken) {
	if t.Radius <= 0 {
		return
	}
	c := tr.FootprintCenter(t.X, t.Y, t.Size)
	rx, ry := tr.RangeEllipse(t.Radius)
	prevX, prevY := c.X+rx, c.Y
	for i := 1; i <= ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		x, y := c.X+rx*math.Cos(a), c.Y+ry*math.Sin(a)
		vector.StrokeLine(screen, float32(prevX), float32(prevY), float32(x), float32(y), 1.5, palette.RangeStroke, true)
		prevX, prevY = x, y
	}
}

func (g *Game) drawArrows(screen *ebiten.Image, tr iso.Transform, wall models.PlacedToken, hover *editor.ArrowHover) {
	for _, a := range tr.WallArrows(wall.X, wall.Y) {
		clr := palette.Outline
		if hover != nil && hover.TokenID == wall.ID && hover.Dir == a.Dir {
			clr = palette.Hover
		}
		r := a.Rect
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), palette.WithAlpha(clr, 0.5), false)
		vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, clr, false)
		ebitenutil.DebugPrintAt(screen, string(a.Dir), int(r.X+r.W/2)-3, int(r.Y+r.H/2)-8)
	}
}

func (g *Game) drawSidebar(screen *ebiten.Image, s editor.State) {
	x := float32(g.boardWidth)
	vector.DrawFilledRect(screen, x, 0, SidebarWidth, float32(g.height), sidebarColor, false)
	ebitenutil.DebugPrintAt(screen, "INVENTORY", g.boardWidth+12, 12)
	for i, e := range s.Inventory {
		y := rowTop + i*rowHeight
		clr := palette.ClassColor(e.Class)
		if e.Remaining == 0 {
			clr = palette.WithAlpha(clr, 0.3)
		}
		vector.DrawFilledRect(screen, x+12, float32(y+4), 10, 10, clr, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%-14s x%d", e.Name, e.Remaining), g.boardWidth+28, y)
	}
	help := "drag to place  R reset  G ranges\nS save  L load  P png  DEL remove"
	ebitenutil.DebugPrintAt(screen, help, g.boardWidth+8, g.height-56)
}

// fillQuad fills a convex quad with a solid color.
func (g *Game) fillQuad(screen *ebiten.Image, q [4]iso.Point, c color.RGBA) {
	r := float32(c.R) / 0xff
	gr := float32(c.G) / 0xff
	b := float32(c.B) / 0xff
	a := float32(c.A) / 0xff
	vs := make([]ebiten.Vertex, 0, 4)
	for _, p := range q {
		vs = append(vs, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: b, ColorA: a,
		})
	}
	indices := []uint16{0, 1, 2, 0, 2, 3}
	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(vs, indices, g.white, op)
}
