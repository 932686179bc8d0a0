package layout

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/internal/palette"
	"github.com/pkg/errors"
)

// RenderOptions controls PNG output. Zero sizes are derived from the grid.
type RenderOptions struct {
	GridSize   int
	Tile       float64
	TopPadding float64
	Width      int
	Height     int
	ShowRanges bool
}

func (o *RenderOptions) normalize() {
	if o.GridSize <= 0 {
		o.GridSize = 60
	}
	if o.Tile <= 0 {
		o.Tile = 22
	}
	if o.TopPadding <= 0 {
		o.TopPadding = 50
	}
	if o.Width <= 0 {
		o.Width = int(math.Ceil(2*float64(o.GridSize)*o.Tile + 2*o.TopPadding))
	}
	if o.Height <= 0 {
		o.Height = int(math.Ceil(float64(o.GridSize)*o.Tile + 2*o.TopPadding))
	}
}

// Render draws the snapshot in the same projection the editor uses.
// cat resolves display names for labels and may be nil.
func Render(s Snapshot, cat *catalog.Catalog, opts RenderOptions) image.Image {
	return draw(s, cat, opts).Image()
}

// RenderPNG renders the snapshot and encodes it as PNG.
func RenderPNG(w io.Writer, s Snapshot, cat *catalog.Catalog, opts RenderOptions) error {
	return errors.Wrap(draw(s, cat, opts).EncodePNG(w), "encode png")
}

func draw(s Snapshot, cat *catalog.Catalog, opts RenderOptions) *gg.Context {
	opts.normalize()
	tr := iso.New(opts.Tile, float64(opts.Width), opts.TopPadding)
	dc := gg.NewContext(opts.Width, opts.Height)

	setColor(dc, palette.Background, 1)
	dc.Clear()

	n := float64(opts.GridSize)
	setColor(dc, palette.GridLine, 1)
	dc.SetLineWidth(1)
	for i := 0; i <= opts.GridSize; i++ {
		f := float64(i)
		ax, ay := tr.GridToScreen(0, f)
		bx, by := tr.GridToScreen(n, f)
		dc.DrawLine(ax, ay, bx, by)
		ax, ay = tr.GridToScreen(f, 0)
		bx, by = tr.GridToScreen(f, n)
		dc.DrawLine(ax, ay, bx, by)
	}
	dc.Stroke()

	for _, r := range s.Placed {
		d := tr.Diamond(r.X, r.Y, r.Size)
		dc.MoveTo(d[0].X, d[0].Y)
		for _, p := range d[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.ClosePath()
		setColor(dc, palette.ClassColor(r.Class), 1)
		dc.FillPreserve()
		setColor(dc, palette.Outline, 1)
		dc.SetLineWidth(2)
		dc.Stroke()

		c := tr.FootprintCenter(r.X, r.Y, r.Size)
		towerH := math.Max(8, opts.Tile*float64(r.Size)*0.6)
		towerW := opts.Tile * float64(r.Size) * 0.72
		setColor(dc, palette.Tower, 1)
		dc.DrawRectangle(c.X-towerW/2, c.Y-towerH*0.4, towerW, towerH*0.3)
		dc.Fill()

		name := r.Key
		if cat != nil {
			if spec, ok := cat.Lookup(r.Key); ok {
				name = spec.Name
			}
		}
		setColor(dc, palette.Label, 1)
		dc.DrawStringAnchored(palette.Abbrev(name), c.X, c.Y, 0.5, 0.5)
	}

	if opts.ShowRanges {
		for _, r := range s.Placed {
			if r.Radius <= 0 {
				continue
			}
			c := tr.FootprintCenter(r.X, r.Y, r.Size)
			rx, ry := tr.RangeEllipse(r.Radius)
			dc.DrawEllipse(c.X, c.Y, rx, ry)
			setColor(dc, palette.Range, 0.18)
			dc.FillPreserve()
			setColor(dc, palette.RangeStroke, 1)
			dc.SetLineWidth(2)
			dc.Stroke()
		}
	}
	return dc
}

func setColor(dc *gg.Context, c color.RGBA, alpha float64) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}
