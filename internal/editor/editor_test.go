package editor

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/internal/inventory"
	"github.com/gravitas-games/baseplanner/internal/layout"
	"github.com/gravitas-games/baseplanner/internal/occupancy"
	"github.com/gravitas-games/baseplanner/pkg/models"
)

func testCatalog(t *testing.T, cannons, walls int) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		catalog.Entry{BuildingSpec: models.BuildingSpec{Key: "cannon", Name: "cannon", Size: 3, Radius: 9, Class: "cannon"}, Count: cannons},
		catalog.Entry{BuildingSpec: models.BuildingSpec{Key: "wall", Name: "wall", Size: 1, Class: models.WallClass}, Count: walls},
		catalog.Entry{BuildingSpec: models.BuildingSpec{Key: "tesla", Name: "hidden tesla", Size: 2, Radius: 7, Class: "tesla"}, Count: 3},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

type harness struct {
	*Editor
	events []Event
}

func newHarness(t *testing.T, cat *catalog.Catalog, opts ...Option) *harness {
	t.Helper()
	h := &harness{}
	bus := NewSyncBus()
	bus.Subscribe(func(ev Event) { h.events = append(h.events, ev) })
	n := 0
	opts = append([]Option{
		WithBus(bus),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("t%d", n)
		}),
	}, opts...)
	h.Editor = New(cat, opts...)
	return h
}

// at returns the pointer position that previews a footprint of size at (x, y).
func (h *harness) at(x, y, size int) (float64, float64) {
	half := float64(size) / 2
	return h.Transform().GridToScreen(float64(x)+half, float64(y)+half)
}

func (h *harness) down(x, y, size int, b Button) {
	px, py := h.at(x, y, size)
	h.PointerDown(px, py, b)
}

func (h *harness) place(t *testing.T, key string, x, y int) string {
	t.Helper()
	spec, ok := h.Catalog().Lookup(key)
	if !ok {
		t.Fatalf("unknown key %s", key)
	}
	if !h.BeginPlacementFromInventory(key) {
		t.Fatalf("begin %s refused", key)
	}
	before := len(h.Placed())
	h.PointerMove(h.at(x, y, spec.Size))
	px, py := h.at(x, y, spec.Size)
	h.PointerUp(px, py)
	placed := h.Placed()
	if len(placed) != before+1 {
		t.Fatalf("place %s at (%d,%d) rejected", key, x, y)
	}
	return placed[len(placed)-1].ID
}

func (h *harness) types() []EventType {
	out := make([]EventType, 0, len(h.events))
	for _, ev := range h.events {
		out = append(out, ev.Type)
	}
	return out
}

func (h *harness) last() Event {
	if len(h.events) == 0 {
		return Event{Type: -1}
	}
	return h.events[len(h.events)-1]
}

func TestBasicPlacement(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))

	if !h.BeginPlacementFromInventory("cannon") {
		t.Fatalf("begin refused")
	}
	if h.Mode() != ModeDragging {
		t.Fatalf("expected dragging, got %s", h.Mode())
	}
	h.PointerMove(h.at(5, 5, 3))
	s := h.Snapshot()
	if s.Ghost == nil || s.Ghost.X != 5 || s.Ghost.Y != 5 || !s.GhostValid {
		t.Fatalf("unexpected ghost %+v valid=%v", s.Ghost, s.GhostValid)
	}
	if len(s.Placed) != 0 {
		t.Fatalf("preview must not place anything")
	}
	h.PointerUp(h.at(5, 5, 3))

	placed := h.Placed()
	if len(placed) != 1 {
		t.Fatalf("expected 1 placed token, got %d", len(placed))
	}
	tok := placed[0]
	if tok.X != 5 || tok.Y != 5 || tok.Size != 3 || tok.ID != "t1" {
		t.Fatalf("unexpected token %+v", tok)
	}
	for y := 5; y <= 7; y++ {
		for x := 5; x <= 7; x++ {
			if owner, _ := h.grid.Owner(x, y); owner != "t1" {
				t.Fatalf("cell (%d,%d) owned by %q", x, y, owner)
			}
		}
	}
	if owner, ok := h.grid.Owner(8, 8); ok {
		t.Fatalf("cell (8,8) should be free, owned by %q", owner)
	}
	if got := h.Remaining("cannon"); got != 4 {
		t.Fatalf("cannon stock = %d, want 4", got)
	}
	if h.Mode() != ModeIdle || h.Snapshot().Ghost != nil {
		t.Fatalf("drag state not cleared")
	}
	got := h.types()
	if len(got) != 2 || got[0] != EventMove || got[1] != EventPlace {
		t.Fatalf("unexpected events %v", got)
	}
	if h.last().Token == nil || h.last().Token.ID != "t1" {
		t.Fatalf("place event should carry the token, got %+v", h.last())
	}
}

func TestCollisionRejection(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	first := h.place(t, "cannon", 5, 5)
	h.events = nil

	h.BeginPlacementFromInventory("cannon")
	h.PointerMove(h.at(6, 6, 3))
	if h.Snapshot().GhostValid {
		t.Fatalf("overlapping ghost reported valid")
	}
	h.PointerUp(h.at(6, 6, 3))

	placed := h.Placed()
	if len(placed) != 1 || placed[0].ID != first || placed[0].X != 5 {
		t.Fatalf("board changed: %+v", placed)
	}
	if got := h.Remaining("cannon"); got != 4 {
		t.Fatalf("stock changed: %d", got)
	}
	if h.last().Type != EventCancelDrag {
		t.Fatalf("expected cancelDrag, got %v", h.types())
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestWallChain(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 4))
	err := h.Import(layout.Snapshot{Placed: []layout.Record{
		{ID: "w0", Key: "wall", X: 10, Y: 10, Size: 1, Class: models.WallClass},
	}})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := h.Remaining("wall"); got != 3 {
		t.Fatalf("wall stock = %d, want 3", got)
	}
	h.Select("w0")
	if h.AnchorID() != "w0" {
		t.Fatalf("selecting a wall should anchor it")
	}

	ids := h.RequestDirectionalExpand("w0", models.East)
	if len(ids) != 2 {
		t.Fatalf("expected 2 walls, got %v", ids)
	}
	a, _ := h.Token(ids[0])
	b, _ := h.Token(ids[1])
	if a.X != 11 || a.Y != 10 || b.X != 12 || b.Y != 10 {
		t.Fatalf("unexpected walls %+v %+v", a, b)
	}
	if got := h.Remaining("wall"); got != 1 {
		t.Fatalf("wall stock = %d, want 1", got)
	}
	if h.AnchorID() != ids[1] || h.SelectedID() != ids[1] {
		t.Fatalf("anchor/selection should move to %s, got %s/%s", ids[1], h.AnchorID(), h.SelectedID())
	}
	ev := h.last()
	if ev.Type != EventExpand || ev.Direction != models.East || len(ev.Placed) != 2 {
		t.Fatalf("unexpected expand event %+v", ev)
	}

	// the request id is stale; the anchor wins
	ids2 := h.RequestDirectionalExpand("w0", models.East)
	if len(ids2) != 1 {
		t.Fatalf("expected 1 wall, got %v", ids2)
	}
	c, _ := h.Token(ids2[0])
	if c.X != 13 || c.Y != 10 {
		t.Fatalf("unexpected wall %+v", c)
	}
	if got := h.Remaining("wall"); got != 0 {
		t.Fatalf("wall stock = %d, want 0", got)
	}
	if h.AnchorID() != ids2[0] {
		t.Fatalf("anchor should be %s, got %s", ids2[0], h.AnchorID())
	}

	n := len(h.events)
	if got := h.RequestDirectionalExpand(ids2[0], models.East); got != nil {
		t.Fatalf("expand without stock placed %v", got)
	}
	if len(h.events) != n {
		t.Fatalf("failed expand must not notify")
	}
}

func TestWallChainBlocked(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	wall := h.place(t, "wall", 4, 8)
	h.place(t, "cannon", 4, 5)

	h.Select(wall)
	if got := h.RequestDirectionalExpand(wall, models.North); got != nil {
		t.Fatalf("expand into a cannon placed %v", got)
	}
	if got := h.RequestDirectionalExpand(wall, models.South); len(got) != 2 {
		t.Fatalf("expected 2 walls south, got %v", got)
	}

	edge := h.place(t, "wall", 0, 0)
	h.Select(edge)
	if got := h.RequestDirectionalExpand(edge, models.West); got != nil {
		t.Fatalf("expand off the board placed %v", got)
	}
}

func TestWallChainInvalidBase(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	c := h.place(t, "cannon", 4, 4)
	h.Select(c)
	if h.AnchorID() != "" {
		t.Fatalf("a cannon must not anchor")
	}
	if got := h.RequestDirectionalExpand(c, models.East); got != nil {
		t.Fatalf("expand from a cannon placed %v", got)
	}
	if got := h.RequestDirectionalExpand("missing", models.East); got != nil {
		t.Fatalf("expand from nothing placed %v", got)
	}
	w := h.place(t, "wall", 20, 20)
	if got := h.RequestDirectionalExpand(w, models.Direction("NE")); got != nil {
		t.Fatalf("invalid direction placed %v", got)
	}
}

func TestOutOfBoundsDropClamps(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	h.BeginPlacementFromInventory("cannon")
	h.PointerMove(h.at(59, 59, 3))
	s := h.Snapshot()
	if s.Ghost == nil || s.Ghost.X != 57 || s.Ghost.Y != 57 {
		t.Fatalf("ghost not clamped: %+v", s.Ghost)
	}
	h.PointerUp(h.at(59, 59, 3))
	placed := h.Placed()
	if len(placed) != 1 || placed[0].X != 57 || placed[0].Y != 57 {
		t.Fatalf("unexpected placement %+v", placed)
	}

	h.BeginPlacementFromInventory("cannon")
	h.PointerMove(h.at(-10, -4, 3))
	if g := h.Snapshot().Ghost; g.X != 0 || g.Y != 0 {
		t.Fatalf("ghost not clamped to origin: %+v", g)
	}
	h.PointerLeave()
}

func TestDragExistingToken(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	id := h.place(t, "cannon", 5, 5)
	h.events = nil

	h.down(5, 5, 3, ButtonPrimary)
	if h.Mode() != ModeDragging || h.SelectedID() != id {
		t.Fatalf("expected drag of selected %s, got %s selected %q", id, h.Mode(), h.SelectedID())
	}
	if _, ok := h.grid.Owner(5, 5); ok {
		t.Fatalf("dragged token cells should be free")
	}
	// overlapping its own old footprint is allowed
	h.PointerMove(h.at(6, 6, 3))
	h.PointerUp(h.at(6, 6, 3))

	tok, _ := h.Token(id)
	if tok.X != 6 || tok.Y != 6 {
		t.Fatalf("token not moved: %+v", tok)
	}
	if got := h.Remaining("cannon"); got != 4 {
		t.Fatalf("moving must not touch stock, got %d", got)
	}
	got := h.types()
	if len(got) != 3 || got[0] != EventSelect || got[1] != EventMove || got[2] != EventPlace {
		t.Fatalf("unexpected events %v", got)
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestDragExistingRevertsOnCollision(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	a := h.place(t, "cannon", 5, 5)
	h.place(t, "cannon", 20, 20)

	h.down(20, 20, 3, ButtonPrimary)
	h.PointerMove(h.at(6, 6, 3))
	h.PointerUp(h.at(6, 6, 3))

	tok, _ := h.Token(a)
	if tok.X != 5 || tok.Y != 5 {
		t.Fatalf("first token moved: %+v", tok)
	}
	if owner, _ := h.grid.Owner(20, 20); owner == "" {
		t.Fatalf("reverted token cells must be re-marked")
	}
	if h.last().Type != EventCancelDrag {
		t.Fatalf("expected cancelDrag, got %v", h.types())
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestReleaseWithoutMove(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	h.BeginPlacementFromInventory("cannon")
	h.PointerUp(300, 300)
	if len(h.Placed()) != 0 || h.Remaining("cannon") != 5 {
		t.Fatalf("release without preview must not place")
	}
	if h.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %s", h.Mode())
	}

	id := h.place(t, "cannon", 5, 5)
	h.down(5, 5, 3, ButtonPrimary)
	h.PointerUp(h.at(5, 5, 3))
	tok, _ := h.Token(id)
	if tok.X != 5 || tok.Y != 5 || !tok.Selected {
		t.Fatalf("click without move should only select: %+v", tok)
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestPointerLeaveCancelsDrag(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	id := h.place(t, "cannon", 5, 5)

	h.down(5, 5, 3, ButtonPrimary)
	h.PointerMove(h.at(30, 30, 3))
	h.PointerLeave()

	tok, _ := h.Token(id)
	if tok.X != 5 || tok.Y != 5 {
		t.Fatalf("cancelled drag moved the token: %+v", tok)
	}
	if h.Mode() != ModeIdle || h.Snapshot().Ghost != nil {
		t.Fatalf("drag state not cleared")
	}
	if h.last().Type != EventCancelDrag {
		t.Fatalf("expected cancelDrag, got %v", h.types())
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}

	// ghost cancel leaves stock untouched
	h.BeginPlacementFromInventory("cannon")
	h.PointerMove(h.at(30, 30, 3))
	h.PointerLeave()
	if len(h.Placed()) != 1 || h.Remaining("cannon") != 4 {
		t.Fatalf("cancelled placement changed the board")
	}
}

func TestBeginPlacementRefused(t *testing.T) {
	h := newHarness(t, testCatalog(t, 0, 10))
	if h.BeginPlacementFromInventory("cannon") {
		t.Fatalf("begin with no stock accepted")
	}
	if h.BeginPlacementFromInventory("nope") {
		t.Fatalf("begin with unknown key accepted")
	}
	if h.Mode() != ModeIdle || len(h.events) != 0 {
		t.Fatalf("refused begin changed state")
	}
	h.BeginPlacementFromInventory("wall")
	if h.BeginPlacementFromInventory("tesla") {
		t.Fatalf("begin while dragging accepted")
	}
}

func TestStockExhaustedBetweenBeginAndDrop(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 1))
	h.BeginPlacementFromInventory("wall")
	h.PointerMove(h.at(3, 3, 1))
	h.PointerUp(h.at(3, 3, 1))
	if h.Remaining("wall") != 0 {
		t.Fatalf("expected no walls left")
	}
	if h.BeginPlacementFromInventory("wall") {
		t.Fatalf("begin with exhausted stock accepted")
	}
}

func TestSecondaryClickRemoves(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	w := h.place(t, "wall", 10, 10)
	c := h.place(t, "cannon", 20, 20)
	h.Select(w)
	h.PointerMove(h.at(10, 10, 1))
	if h.Snapshot().HoverID != w {
		t.Fatalf("hover should be %s", w)
	}
	h.events = nil

	h.down(10, 10, 1, ButtonSecondary)
	if _, ok := h.Token(w); ok {
		t.Fatalf("wall not removed")
	}
	if h.AnchorID() != "" || h.Snapshot().HoverID != "" {
		t.Fatalf("anchor/hover should be cleared")
	}
	if h.Remaining("wall") != 10 {
		t.Fatalf("stock not returned: %d", h.Remaining("wall"))
	}
	got := h.types()
	if len(got) != 2 || got[0] != EventRemove || got[1] != EventCancelDrag {
		t.Fatalf("unexpected events %v", got)
	}
	if h.Mode() == ModeDragging {
		t.Fatalf("secondary click must not start a drag")
	}

	h.events = nil
	h.PointerDown(5, 5, ButtonSecondary)
	if len(h.events) != 0 {
		t.Fatalf("secondary click on empty space emitted %v", h.types())
	}
	if _, ok := h.Token(c); !ok {
		t.Fatalf("cannon removed by accident")
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestSelectionAndAnchor(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	w := h.place(t, "wall", 10, 10)
	c := h.place(t, "cannon", 20, 20)

	h.Select(w)
	if h.SelectedID() != w || h.AnchorID() != w {
		t.Fatalf("wall selection should anchor")
	}
	h.Select(c)
	if h.SelectedID() != c || h.AnchorID() != "" {
		t.Fatalf("selecting a cannon should clear the anchor")
	}
	h.Select(c)
	if h.SelectedID() != "" {
		t.Fatalf("second select should toggle off")
	}
	if h.last().Type != EventSelect || h.last().TokenID != "" {
		t.Fatalf("toggle off should emit an empty select, got %+v", h.last())
	}

	h.Select(w)
	h.PointerDown(5, 5, ButtonPrimary)
	if h.SelectedID() != "" || h.AnchorID() != "" {
		t.Fatalf("click on empty space should deselect")
	}
	if h.Mode() == ModeDragging {
		t.Fatalf("click on empty space must not drag")
	}

	n := len(h.events)
	h.PointerDown(5, 5, ButtonPrimary)
	if len(h.events) != n {
		t.Fatalf("click on empty space without selection emitted %v", h.types()[n:])
	}
}

func TestArrowClickExpands(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	w := h.place(t, "wall", 10, 10)

	h.down(10, 10, 1, ButtonPrimary)
	h.PointerUp(h.at(10, 10, 1))
	if h.AnchorID() != w {
		t.Fatalf("clicked wall should be the anchor")
	}

	var east float64
	var y float64
	for _, a := range h.Transform().WallArrows(10, 10) {
		if a.Dir == models.East {
			east = a.Rect.X + a.Rect.W/2
			y = a.Rect.Y + a.Rect.H/2
		}
	}
	h.PointerMove(east, y)
	if ah := h.Snapshot().ArrowHover; ah == nil || ah.Dir != models.East || ah.TokenID != w {
		t.Fatalf("expected east arrow hover, got %+v", ah)
	}
	h.PointerDown(east, y, ButtonPrimary)
	if h.Mode() == ModeDragging {
		t.Fatalf("arrow click must not start a drag")
	}
	if len(h.Placed()) != 3 {
		t.Fatalf("expected 2 new walls, got %+v", h.Placed())
	}
	if h.last().Type != EventExpand {
		t.Fatalf("expected expand, got %v", h.types())
	}
}

func TestHoverTopmost(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	below := h.place(t, "cannon", 10, 10)
	wall := h.place(t, "wall", 13, 11)

	h.PointerMove(h.at(11, 11, 1))
	if got := h.Snapshot().HoverID; got != below || h.Mode() != ModeHover {
		t.Fatalf("hover = %q mode %s", got, h.Mode())
	}

	// the wall's centre lies in a corner of the cannon's hit box
	px, py := h.at(13, 11, 1)
	if !h.Transform().HitTest(px, py, 10, 10, 3) {
		t.Fatalf("expected the cannon box to cover the wall centre")
	}
	if got := h.HitTest(px, py); got != wall {
		t.Fatalf("later token should win the hit test, got %q", got)
	}

	h.PointerMove(0, 0)
	if h.Snapshot().HoverID != "" || h.Mode() != ModeIdle {
		t.Fatalf("hover not cleared")
	}
}

func TestImport(t *testing.T) {
	h := newHarness(t, testCatalog(t, 1, 10))
	h.place(t, "wall", 0, 0)

	bad := []struct {
		name string
		recs []layout.Record
		want error
	}{
		{"unknown", []layout.Record{{ID: "a", Key: "catapult", X: 1, Y: 1, Size: 1}}, catalog.ErrUnknownSpec},
		{"overlap", []layout.Record{
			{ID: "a", Key: "cannon", X: 1, Y: 1, Size: 3},
			{ID: "b", Key: "wall", X: 2, Y: 2, Size: 1},
		}, ErrInvalidLayout},
		{"bounds", []layout.Record{{ID: "a", Key: "cannon", X: 58, Y: 0, Size: 3}}, ErrInvalidLayout},
		{"overflow x", []layout.Record{{ID: "a", Key: "wall", X: math.MaxInt, Size: 1}}, ErrInvalidLayout},
		{"overflow y", []layout.Record{{ID: "a", Key: "wall", Y: math.MaxInt - 1, Size: 3}}, ErrInvalidLayout},
		{"overflow size", []layout.Record{{ID: "a", Key: "wall", Size: math.MaxInt}}, ErrInvalidLayout},
		{"duplicate", []layout.Record{
			{ID: "a", Key: "wall", X: 1, Y: 1, Size: 1},
			{ID: "a", Key: "wall", X: 3, Y: 3, Size: 1},
		}, ErrInvalidLayout},
	}
	for _, tc := range bad {
		err := h.Import(layout.Snapshot{Placed: tc.recs})
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
		if len(h.Placed()) != 1 || h.Remaining("wall") != 9 {
			t.Errorf("%s: failed import changed the editor", tc.name)
		}
	}

	h.events = nil
	err := h.Import(layout.Snapshot{Placed: []layout.Record{
		{Key: "cannon", X: 1, Y: 1, Size: 3, Radius: 9, Class: "cannon"},
		{ID: "c2", Key: "cannon", X: 10, Y: 10},
		{ID: "w", Key: "wall", X: 20, Y: 20, Size: 1, Class: "wall"},
	}})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	placed := h.Placed()
	if len(placed) != 3 || placed[0].ID == "" || placed[1].Size != 3 || placed[1].Class != "cannon" {
		t.Fatalf("unexpected tokens %+v", placed)
	}
	if placed[1].Radius != 9 {
		t.Fatalf("missing radius should come from the catalog, got %v", placed[1].Radius)
	}
	for _, tok := range placed {
		if tok.Selected {
			t.Fatalf("imported tokens must be unselected")
		}
	}
	if h.Remaining("cannon") != 0 || h.Remaining("wall") != 9 {
		t.Fatalf("stock not recounted: cannon=%d wall=%d", h.Remaining("cannon"), h.Remaining("wall"))
	}
	if h.last().Type != EventLoad {
		t.Fatalf("expected load, got %v", h.types())
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}

	round := h.Export()
	if len(round.Placed) != 3 || round.Placed[1].ID != "c2" {
		t.Fatalf("unexpected export %+v", round)
	}
}

func TestResetAndGridSize(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	h.place(t, "cannon", 30, 30)

	if err := h.SetGridSize(20); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("shrinking past a token: got %v", err)
	}
	if h.GridSize() != 60 {
		t.Fatalf("rejected resize changed the grid")
	}
	if err := h.SetGridSize(occupancy.MaxSize + 1); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("oversized grid: got %v", err)
	}
	if err := h.SetGridSize(33); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}

	h.Reset()
	s := h.Snapshot()
	if len(s.Placed) != 0 || h.Remaining("cannon") != 5 || s.SelectedID != "" || s.AnchorID != "" {
		t.Fatalf("reset left state behind: %+v", s)
	}
	if h.last().Type != EventReset {
		t.Fatalf("expected reset, got %v", h.types())
	}
}

func TestAutoPlace(t *testing.T) {
	h := newHarness(t, testCatalog(t, 2, 1), WithGridSize(4))

	id, err := h.AutoPlace("cannon")
	if err != nil {
		t.Fatalf("auto-place: %v", err)
	}
	if tok, _ := h.Token(id); tok.X != 0 || tok.Y != 0 {
		t.Fatalf("first cannon at (%d,%d), want (0,0)", tok.X, tok.Y)
	}
	if h.last().Type != EventPlace || h.last().TokenID != id {
		t.Fatalf("expected place event, got %v", h.types())
	}

	if _, err := h.AutoPlace("cannon"); !errors.Is(err, occupancy.ErrCollision) {
		t.Fatalf("second cannon on a full board: got %v", err)
	}
	if h.Remaining("cannon") != 1 {
		t.Fatalf("failed auto-place consumed stock")
	}

	id, err = h.AutoPlace("wall")
	if err != nil {
		t.Fatalf("auto-place wall: %v", err)
	}
	if tok, _ := h.Token(id); tok.X != 3 || tok.Y != 0 {
		t.Fatalf("wall at (%d,%d), want (3,0)", tok.X, tok.Y)
	}
	if _, err := h.AutoPlace("wall"); !errors.Is(err, inventory.ErrOutOfStock) {
		t.Fatalf("exhausted wall: got %v", err)
	}

	h.BeginPlacementFromInventory("cannon")
	if _, err := h.AutoPlace("cannon"); err == nil {
		t.Fatalf("auto-place during a drag should be refused")
	}
	if err := h.CheckConsistency(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	h := newHarness(t, testCatalog(t, 5, 10))
	h.place(t, "cannon", 5, 5)
	s := h.Snapshot()
	s.Placed[0].X = 40
	if tok := h.Placed()[0]; tok.X != 5 {
		t.Fatalf("snapshot aliases editor state")
	}
	v := s.Version
	h.place(t, "wall", 1, 1)
	if h.Snapshot().Version == v {
		t.Fatalf("version should change with the placed set")
	}
}

// TestRandomInteraction drives random input and checks the board
// invariants after every step.
func TestRandomInteraction(t *testing.T) {
	cat := testCatalog(t, 6, 30)
	h := newHarness(t, cat, WithGridSize(12))
	rng := rand.New(rand.NewSource(7))
	keys := cat.Keys()

	randomPoint := func() (float64, float64) {
		gx := rng.Float64()*16 - 2
		gy := rng.Float64()*16 - 2
		return h.Transform().GridToScreen(gx, gy)
	}

	for step := 0; step < 3000; step++ {
		switch rng.Intn(8) {
		case 0:
			h.BeginPlacementFromInventory(keys[rng.Intn(len(keys))])
		case 1, 2:
			h.PointerMove(randomPoint())
		case 3:
			h.PointerUp(randomPoint())
		case 4:
			px, py := randomPoint()
			h.PointerDown(px, py, Button(rng.Intn(2)))
		case 5:
			if rng.Intn(4) == 0 {
				h.PointerLeave()
			}
		case 6:
			if placed := h.Placed(); len(placed) > 0 {
				tok := placed[rng.Intn(len(placed))]
				h.RequestDirectionalExpand(tok.ID, models.Directions[rng.Intn(4)])
			}
		case 7:
			if placed := h.Placed(); len(placed) > 0 && rng.Intn(3) == 0 {
				h.Remove(placed[rng.Intn(len(placed))].ID)
			}
		}

		if err := h.CheckConsistency(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		placed := h.Placed()
		counts := map[string]int{}
		for i, a := range placed {
			counts[a.Key]++
			if a.X < 0 || a.Y < 0 || a.X+a.Size > 12 || a.Y+a.Size > 12 {
				t.Fatalf("step %d: %s out of bounds", step, a.ID)
			}
			for _, b := range placed[i+1:] {
				if a.Overlaps(b) {
					t.Fatalf("step %d: %s overlaps %s", step, a.ID, b.ID)
				}
			}
		}
		for _, k := range keys {
			if h.Remaining(k)+counts[k] != cat.InitialCount(k) {
				t.Fatalf("step %d: stock of %s not conserved", step, k)
			}
			if h.Remaining(k) < 0 {
				t.Fatalf("step %d: negative stock of %s", step, k)
			}
		}
		if a := h.AnchorID(); a != "" {
			if tok, ok := h.Token(a); !ok || !tok.IsWall() {
				t.Fatalf("step %d: anchor %s is not a placed wall", step, a)
			}
		}
	}
}

func TestSyncBus(t *testing.T) {
	bus := NewSyncBus()
	var got []string
	a := bus.Subscribe(func(ev Event) { got = append(got, "a:"+ev.Type.String()) })
	bus.Subscribe(func(ev Event) { got = append(got, "b:"+ev.Type.String()) })
	bus.Publish(Event{Type: EventPlace})
	bus.Unsubscribe(a)
	bus.Unsubscribe(a)
	bus.Publish(Event{Type: EventCancelDrag})

	want := []string{"a:place", "b:place", "b:cancelDrag"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
