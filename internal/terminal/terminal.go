// Package terminal drives the editor from a tcell screen: mouse drags place
// and move buildings, the keyboard handles walls, slots and panning.
package terminal

import (
	"fmt"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/internal/layout"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

// SidebarWidth is the inventory column width.
const SidebarWidth = 26

// DefaultSlot is the save slot used by the s and l keys.
const DefaultSlot = "quicksave"

const (
	panCols = 8
	panRows = 4
)

// NewTransform returns a projection measured in terminal cells for a board
// viewport cols wide. The width is rounded down to an even number so that
// cell centres never fall on a diamond edge.
func NewTransform(tile, cols int) iso.Transform {
	t := iso.New(float64(tile), float64(cols-cols%2), 1)
	t.ArrowSize = float64(tile)
	t.ArrowGap = 0.5
	return t
}

// Open creates and initialises a real terminal screen with mouse reporting.
func Open() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	return screen, nil
}

// App owns a screen and an editor.
type App struct {
	screen tcell.Screen
	editor *editor.Editor
	store  *layout.Store // nil disables save slots
	tile   int

	width, height int
	boardWidth    int

	buttons          tcell.ButtonMask
	lastCol, lastRow int
	onBoard          bool
	status           string
	lastKey          string
	sub              int
}

// New creates the app and fits the editor projection to the screen.
func New(screen tcell.Screen, ed *editor.Editor, store *layout.Store, tile int) *App {
	if tile < 1 {
		tile = 2
	}
	a := &App{
		screen:  screen,
		editor:  ed,
		store:   store,
		tile:    tile,
		lastCol: -1,
		lastRow: -1,
	}
	a.resize()
	ed.SetTransform(NewTransform(tile, a.boardWidth))
	a.sub = ed.Bus().Subscribe(a.onEvent)
	return a
}

// Status returns the last status line.
func (a *App) Status() string { return a.status }

// Run polls events until the user quits or the screen is finalised.
func (a *App) Run() error {
	defer a.editor.Bus().Unsubscribe(a.sub)
	a.Draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !a.HandleEvent(ev) {
			log.Println("[terminal] quit")
			return nil
		}
		a.Draw()
	}
}

// HandleEvent applies one tcell event. It returns false when the user quits.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.resize()
		a.screen.Sync()
	}
	return true
}

func (a *App) resize() {
	a.width, a.height = a.screen.Size()
	a.boardWidth = a.width - SidebarWidth
	if a.boardWidth < 1 {
		a.boardWidth = 1
	}
}

// pointer maps a terminal cell to the projection coordinate of its centre.
func pointer(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row) + 0.5
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	col, row := ev.Position()
	btn := ev.Buttons() & (tcell.Button1 | tcell.Button2)
	pressed := btn &^ a.buttons
	released := a.buttons &^ btn
	a.buttons = btn

	px, py := pointer(col, row)
	onBoard := col < a.boardWidth
	dragging := a.editor.Mode() == editor.ModeDragging
	if a.onBoard && !onBoard && !dragging {
		a.editor.PointerLeave()
	}
	a.onBoard = onBoard

	if col != a.lastCol || row != a.lastRow {
		a.lastCol, a.lastRow = col, row
		if onBoard || dragging {
			a.editor.PointerMove(px, py)
		}
	}

	if pressed&tcell.Button1 != 0 {
		if onBoard {
			a.editor.PointerDown(px, py, editor.ButtonPrimary)
		} else if key, ok := a.sidebarAt(col, row); ok {
			a.begin(key)
		}
	}
	if pressed&tcell.Button2 != 0 && onBoard {
		a.editor.PointerDown(px, py, editor.ButtonSecondary)
	}
	if released&tcell.Button1 != 0 {
		if onBoard {
			a.editor.PointerUp(px, py)
		} else {
			a.editor.PointerLeave()
		}
	}
}

var arrowKeys = map[tcell.Key]models.Direction{
	tcell.KeyUp:    models.North,
	tcell.KeyRight: models.East,
	tcell.KeyDown:  models.South,
	tcell.KeyLeft:  models.West,
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	if dir, ok := arrowKeys[ev.Key()]; ok {
		if id := a.editor.SelectedID(); id != "" {
			a.editor.RequestDirectionalExpand(id, dir)
		} else {
			a.status = "select a wall first"
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if a.editor.Mode() == editor.ModeDragging {
			a.editor.PointerLeave()
			return true
		}
		return false
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.removeSelected()
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch r := ev.Rune(); r {
	case 'q':
		return false
	case 'x':
		a.removeSelected()
	case 'a':
		a.autoPlace()
	case 'r':
		a.editor.Reset()
	case 's':
		a.save()
	case 'l':
		a.load()
	case 'H':
		a.pan(panCols, 0)
	case 'L':
		a.pan(-panCols, 0)
	case 'J':
		a.pan(0, -panRows)
	case 'K':
		a.pan(0, panRows)
	default:
		if r >= '1' && r <= '9' {
			keys := a.editor.Catalog().Keys()
			if i := int(r - '1'); i < len(keys) {
				a.begin(keys[i])
			}
		}
	}
	return true
}

func (a *App) begin(key string) {
	if !a.editor.BeginPlacementFromInventory(key) {
		a.status = fmt.Sprintf("no %s left", key)
		return
	}
	a.lastKey = key
	a.status = "placing " + key
}

// autoPlace drops the most recently picked building at the first free spot,
// cancelling its drag if one is in progress.
func (a *App) autoPlace() {
	if a.lastKey == "" {
		a.status = "pick a building first"
		return
	}
	if a.editor.Mode() == editor.ModeDragging {
		a.editor.PointerLeave()
	}
	if _, err := a.editor.AutoPlace(a.lastKey); err != nil {
		a.status = err.Error()
	}
}

func (a *App) removeSelected() {
	if id := a.editor.SelectedID(); id != "" {
		a.editor.Remove(id)
	}
}

// pan shifts the board origin by whole terminal cells.
func (a *App) pan(cols, rows int) {
	t := a.editor.Transform()
	t.CanvasWidth += 2 * float64(cols)
	t.TopPadding += float64(rows)
	a.editor.SetTransform(t)
}

func (a *App) sidebarAt(col, row int) (string, bool) {
	if col < a.boardWidth || row < 2 {
		return "", false
	}
	keys := a.editor.Catalog().Keys()
	i := row - 2
	if i >= len(keys) {
		return "", false
	}
	return keys[i], true
}

func (a *App) onEvent(ev editor.Event) {
	switch ev.Type {
	case editor.EventPlace:
		a.status = fmt.Sprintf("placed %s at %d,%d", ev.Token.Key, ev.Token.X, ev.Token.Y)
	case editor.EventRemove:
		a.status = "removed " + ev.Token.Key
	case editor.EventExpand:
		a.status = fmt.Sprintf("%d wall(s) %s", len(ev.Placed), ev.Direction)
	case editor.EventCancelDrag:
		if ev.TokenID != "" {
			a.status = "drop rejected"
		}
	case editor.EventReset:
		a.status = "board cleared"
	case editor.EventLoad:
		a.status = "layout loaded"
	}
}

func (a *App) save() {
	if a.store == nil {
		a.status = "storage unavailable"
		return
	}
	if err := a.store.Save(DefaultSlot, a.editor.Export()); err != nil {
		log.Printf("[terminal] save: %v", err)
		a.status = "save failed"
		return
	}
	a.status = "saved to " + DefaultSlot
}

func (a *App) load() {
	if a.store == nil {
		a.status = "storage unavailable"
		return
	}
	snap, err := a.store.Load(DefaultSlot)
	if err == nil {
		err = a.editor.Import(snap)
	}
	if err != nil {
		log.Printf("[terminal] load: %v", err)
		a.status = "load failed"
	}
}
