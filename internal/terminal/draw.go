package terminal

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/internal/palette"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

// GridRune marks a free board cell.
const GridRune = '·'

var (
	gridStyle     = tcell.StyleDefault.Foreground(rgb(palette.GridLine)).Background(rgb(palette.Background))
	sidebarStyle  = tcell.StyleDefault.Foreground(rgb(palette.Label))
	statusStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	validStyle    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	invalidStyle  = tcell.StyleDefault.Background(rgb(palette.Invalid)).Foreground(tcell.ColorWhite)
	arrowStyle    = tcell.StyleDefault.Foreground(rgb(palette.Label)).Background(rgb(palette.Outline))
	arrowHotStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(rgb(palette.Hover))
)

var arrowRunes = map[models.Direction]rune{
	models.North: '▲',
	models.East:  '▶',
	models.South: '▼',
	models.West:  '◀',
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw renders the current editor snapshot.
func (a *App) Draw() {
	s := a.editor.Snapshot()
	tr := s.Transform
	a.screen.Clear()

	owners := make(map[[2]int]int)
	for i, t := range s.Placed {
		if t.ID == s.DraggingID {
			continue
		}
		for y := t.Y; y < t.Y+t.Size; y++ {
			for x := t.X; x < t.X+t.Size; x++ {
				owners[[2]int{x, y}] = i
			}
		}
	}

	for row := 0; row < a.height-1; row++ {
		for col := 0; col < a.boardWidth; col++ {
			gx, gy := tr.ScreenToGrid(pointer(col, row))
			x, y := int(math.Floor(gx)), int(math.Floor(gy))
			if x < 0 || y < 0 || x >= s.GridSize || y >= s.GridSize {
				continue
			}
			switch i, ok := owners[[2]int{x, y}]; {
			case s.Ghost != nil && s.Ghost.Covers(x, y):
				a.screen.SetContent(col, row, ' ', nil, ghostStyle(s))
			case ok:
				a.screen.SetContent(col, row, ' ', nil, tokenStyle(s.Placed[i], s))
			default:
				a.screen.SetContent(col, row, GridRune, nil, gridStyle)
			}
		}
	}

	for _, t := range s.Placed {
		if t.ID != s.DraggingID {
			a.label(tr, t, tokenStyle(t, s))
		}
	}
	if s.Ghost != nil {
		a.label(tr, *s.Ghost, ghostStyle(s))
	}
	if sel, ok := s.Selected(); ok && sel.IsWall() && s.Mode != editor.ModeDragging {
		a.drawArrows(tr, sel, s.ArrowHover)
	}

	a.drawSidebar(s)
	a.puts(0, a.height-1, a.status, statusStyle)
	a.screen.Show()
}

func tokenStyle(t models.PlacedToken, s editor.State) tcell.Style {
	st := tcell.StyleDefault.Background(rgb(palette.ClassColor(t.Class))).Foreground(rgb(palette.Label))
	switch {
	case t.Selected:
		st = st.Reverse(true)
	case t.ID == s.HoverID:
		st = st.Bold(true).Underline(true)
	}
	return st
}

func ghostStyle(s editor.State) tcell.Style {
	if s.GhostValid {
		return validStyle
	}
	return invalidStyle
}

func (a *App) label(tr iso.Transform, t models.PlacedToken, style tcell.Style) {
	name := t.Key
	if spec, ok := a.editor.Catalog().Lookup(t.Key); ok {
		name = spec.Name
	}
	text := palette.Abbrev(name)
	c := tr.FootprintCenter(t.X, t.Y, t.Size)
	col := int(math.Floor(c.X)) - len(text)/2
	row := int(math.Floor(c.Y - 0.5))
	if col+len(text) > a.boardWidth {
		return
	}
	a.puts(col, row, text, style)
}

func (a *App) drawArrows(tr iso.Transform, wall models.PlacedToken, hover *editor.ArrowHover) {
	for _, arrow := range tr.WallArrows(wall.X, wall.Y) {
		style := arrowStyle
		if hover != nil && hover.TokenID == wall.ID && hover.Dir == arrow.Dir {
			style = arrowHotStyle
		}
		r := arrow.Rect
		for row := int(math.Floor(r.Y)); row <= int(math.Ceil(r.Y+r.H)); row++ {
			for col := int(math.Floor(r.X)); col <= int(math.Ceil(r.X+r.W)); col++ {
				if col >= a.boardWidth || !r.Contains(pointer(col, row)) {
					continue
				}
				a.screen.SetContent(col, row, arrowRunes[arrow.Dir], nil, style)
			}
		}
	}
}

func (a *App) drawSidebar(s editor.State) {
	x := a.boardWidth + 1
	a.puts(x, 0, "INVENTORY", sidebarStyle.Bold(true))
	for i, e := range s.Inventory {
		hotkey := ' '
		if i < 9 {
			hotkey = rune('1' + i)
		}
		line := fmt.Sprintf("%c %-16.16s %3d", hotkey, e.Name, e.Remaining)
		style := sidebarStyle
		if e.Remaining == 0 {
			style = style.Dim(true)
		}
		a.screen.SetContent(x, 2+i, '■', nil, tcell.StyleDefault.Foreground(rgb(palette.ClassColor(e.Class))))
		a.puts(x+2, 2+i, line, style)
	}
}

func (a *App) puts(col, row int, text string, style tcell.Style) {
	for _, r := range text {
		if col >= 0 && col < a.width {
			a.screen.SetContent(col, row, r, nil, style)
		}
		col++
	}
}
