// Package surface is the desktop front end: an ebiten game that turns mouse
// and keyboard input into editor calls and draws editor snapshots.
package surface

import (
	"fmt"
	"log"
	"os"

	"github.com/gravitas-games/baseplanner/internal/config"
	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/layout"
	"github.com/gravitas-games/baseplanner/pkg/models"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Sidebar geometry
const (
	SidebarWidth = 220
	rowHeight    = 20
	rowTop       = 36
)

// DefaultSlot is the save slot used by the S and L keys.
const DefaultSlot = "quicksave"

// Game implements ebiten.Game for one editor.
type Game struct {
	config *config.Config
	editor *editor.Editor
	store  *layout.Store // nil disables save slots

	width, height int
	boardWidth    int

	white      *ebiten.Image
	showRanges bool
	status     string

	inside  bool
	onBoard bool
	lastX   int
	lastY   int
	sub     int
}

// New creates the game. store may be nil.
func New(cfg *config.Config, ed *editor.Editor, store *layout.Store) *Game {
	g := &Game{
		config:     cfg,
		editor:     ed,
		store:      store,
		width:      cfg.Board.CanvasWidth,
		height:     cfg.Board.CanvasHeight,
		boardWidth: cfg.Board.CanvasWidth - SidebarWidth,
		lastX:      -1,
		lastY:      -1,
	}
	g.white = ebiten.NewImage(3, 3)
	g.white.Fill(whiteColor)
	ed.SetCanvasWidth(float64(g.boardWidth))
	g.sub = ed.Bus().Subscribe(g.onEvent)
	return g
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	log.Printf("[surface] starting %dx%d, grid %d", g.width, g.height, g.editor.GridSize())
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("Base Planner")
	defer g.editor.Bus().Unsubscribe(g.sub)

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	log.Println("[surface] window closed")
	return nil
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.handleKeys()
	g.handlePointer()
	return nil
}

func (g *Game) handlePointer() {
	x, y := ebiten.CursorPosition()
	inside := x >= 0 && y >= 0 && x < g.width && y < g.height
	if !inside {
		if g.inside {
			g.editor.PointerLeave()
		}
		g.inside, g.onBoard = false, false
		return
	}
	g.inside = true

	px, py := float64(x), float64(y)
	onBoard := x < g.boardWidth
	if g.onBoard && !onBoard && g.editor.Mode() != editor.ModeDragging {
		g.editor.PointerLeave()
	}
	g.onBoard = onBoard

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if onBoard {
			g.editor.PointerDown(px, py, editor.ButtonPrimary)
		} else if key, ok := g.sidebarAt(x, y); ok {
			if !g.editor.BeginPlacementFromInventory(key) {
				g.status = fmt.Sprintf("no %s left", key)
			}
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) && onBoard {
		g.editor.PointerDown(px, py, editor.ButtonSecondary)
	}

	if x != g.lastX || y != g.lastY {
		g.lastX, g.lastY = x, y
		if onBoard || g.editor.Mode() == editor.ModeDragging {
			g.editor.PointerMove(px, py)
		}
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if onBoard {
			g.editor.PointerUp(px, py)
		} else {
			g.editor.PointerLeave()
		}
	}
}

var arrowKeys = map[ebiten.Key]models.Direction{
	ebiten.KeyArrowUp:    models.North,
	ebiten.KeyArrowRight: models.East,
	ebiten.KeyArrowDown:  models.South,
	ebiten.KeyArrowLeft:  models.West,
}

func (g *Game) handleKeys() {
	for key, dir := range arrowKeys {
		if inpututil.IsKeyJustPressed(key) {
			if id := g.editor.SelectedID(); id != "" {
				g.editor.RequestDirectionalExpand(id, dir)
			}
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.editor.PointerLeave()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		if id := g.editor.SelectedID(); id != "" {
			g.editor.Remove(id)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.editor.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.showRanges = !g.showRanges
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.save()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.load()
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.exportPNG()
	}
}

func (g *Game) sidebarAt(x, y int) (string, bool) {
	if x < g.boardWidth || y < rowTop {
		return "", false
	}
	keys := g.editor.Catalog().Keys()
	i := (y - rowTop) / rowHeight
	if i < 0 || i >= len(keys) {
		return "", false
	}
	return keys[i], true
}

func (g *Game) onEvent(ev editor.Event) {
	switch ev.Type {
	case editor.EventPlace:
		g.status = fmt.Sprintf("placed %s at (%d,%d)", ev.Token.Key, ev.Token.X, ev.Token.Y)
	case editor.EventRemove:
		g.status = fmt.Sprintf("removed %s", ev.Token.Key)
	case editor.EventExpand:
		g.status = fmt.Sprintf("%d wall(s) %s", len(ev.Placed), ev.Direction)
	case editor.EventCancelDrag:
		if ev.TokenID != "" {
			g.status = "drop rejected"
		}
	case editor.EventReset:
		g.status = "board cleared"
	case editor.EventLoad:
		g.status = "layout loaded"
	}
}

func (g *Game) save() {
	if g.store == nil {
		g.status = "storage unavailable"
		return
	}
	if err := g.store.Save(DefaultSlot, g.editor.Export()); err != nil {
		log.Printf("[surface] save: %v", err)
		g.status = "save failed"
		return
	}
	g.status = "saved to " + DefaultSlot
}

func (g *Game) load() {
	if g.store == nil {
		g.status = "storage unavailable"
		return
	}
	snap, err := g.store.Load(DefaultSlot)
	if err == nil {
		err = g.editor.Import(snap)
	}
	if err != nil {
		log.Printf("[surface] load: %v", err)
		g.status = "load failed"
	}
}

func (g *Game) exportPNG() {
	name := DefaultSlot + ".png"
	f, err := os.Create(name)
	if err != nil {
		log.Printf("[surface] export: %v", err)
		g.status = "export failed"
		return
	}
	defer f.Close()

	opts := layout.RenderOptions{
		GridSize:   g.editor.GridSize(),
		Tile:       g.config.Board.Tile,
		TopPadding: g.config.Board.TopPadding,
		ShowRanges: g.showRanges,
	}
	if err := layout.RenderPNG(f, g.editor.Export(), g.editor.Catalog(), opts); err != nil {
		log.Printf("[surface] export: %v", err)
		g.status = "export failed"
		return
	}
	g.status = "wrote " + name
}
