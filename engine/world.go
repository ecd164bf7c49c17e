package engine

import (
	"log/slog"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/grid"
)

// World is the host simulation: a stack of scenes, a frame counter and scene notifications
// Single-threaded: every method must be called from the frame loop goroutine
type World struct {
	nextEntityID core.Entity
	scenes       []*Scene
	frame        int64

	pushHandlers []func()
	popHandlers  []func()

	logger *slog.Logger
}

// NewWorld creates a world whose root scene uses tiles (may be nil)
func NewWorld(tiles *grid.TileMap) *World {
	return &World{
		nextEntityID: 1,
		scenes:       []*Scene{newScene(tiles)},
		logger:       slog.New(slog.DiscardHandler),
	}
}

// SetLogger routes scene lifecycle diagnostics to logger
func (w *World) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger.With(slog.String("component", "engine"))
	}
}

// Scene returns the active scene
func (w *World) Scene() *Scene {
	return w.scenes[len(w.scenes)-1]
}

// SceneDepth returns the number of stacked scenes
func (w *World) SceneDepth() int {
	return len(w.scenes)
}

// PushScene activates a new scene; push handlers run after it is current
func (w *World) PushScene(tiles *grid.TileMap) *Scene {
	s := newScene(tiles)
	w.scenes = append(w.scenes, s)
	w.logger.Debug("scene pushed", slog.Int("depth", len(w.scenes)))
	for _, fn := range w.pushHandlers {
		fn()
	}
	return s
}

// PopScene discards the active scene; pop handlers run after the outer scene is current
// Popping the root scene replaces it with an empty one
func (w *World) PopScene() {
	n := len(w.scenes)
	w.scenes[n-1] = nil
	w.scenes = w.scenes[:n-1]
	if len(w.scenes) == 0 {
		w.scenes = append(w.scenes, newScene(nil))
	}
	w.logger.Debug("scene popped", slog.Int("depth", len(w.scenes)))
	for _, fn := range w.popHandlers {
		fn()
	}
}

// SetTileMap replaces the active scene's tile map
func (w *World) SetTileMap(tiles *grid.TileMap) {
	s := w.Scene()
	s.tiles = tiles
	s.resizeBroadPhase()
}

// CreateBody adds a body to the active scene and returns its handle
func (w *World) CreateBody(kind core.Kind, bounds core.Rect) core.Entity {
	id := w.nextEntityID
	w.nextEntityID++
	s := w.Scene()
	s.bodies[id] = &Body{Kind: kind, Bounds: bounds}
	s.order = append(s.order, id)
	return id
}

// Body returns the live body for e in the active scene
func (w *World) Body(e core.Entity) (*Body, bool) {
	b, ok := w.Scene().bodies[e]
	if !ok || b.Destroyed {
		return nil, false
	}
	return b, true
}

// Move translates a body by (dx, dy)
func (w *World) Move(e core.Entity, dx, dy int) {
	if b, ok := w.Body(e); ok {
		b.Bounds = b.Bounds.Translate(dx, dy)
	}
}

// SetPosition moves a body's top-left corner to (x, y), keeping its size
func (w *World) SetPosition(e core.Entity, x, y int) {
	if b, ok := w.Body(e); ok {
		b.Bounds = core.RectAt(x, y, b.Bounds.Width(), b.Bounds.Height())
	}
}

// SetVelocity sets per-frame displacement applied by the physics step
func (w *World) SetVelocity(e core.Entity, vx, vy int) {
	if b, ok := w.Body(e); ok {
		b.VX, b.VY = vx, vy
	}
}

// Destroy flags a body; it stays readable until the cleanup handler of this frame
func (w *World) Destroy(e core.Entity) {
	if b, ok := w.Scene().bodies[e]; ok {
		b.Destroyed = true
	}
}

// Step advances the active scene by one frame
func (w *World) Step() {
	w.frame++
	w.Scene().step()
}

// --- overlap.Host ---

// Kind returns the category of e, zero if unknown
func (w *World) Kind(e core.Entity) core.Kind {
	if b, ok := w.Scene().bodies[e]; ok {
		return b.Kind
	}
	return 0
}

// Bounds returns the bounding box of e, empty if unknown
func (w *World) Bounds(e core.Entity) core.Rect {
	if b, ok := w.Scene().bodies[e]; ok {
		return b.Bounds
	}
	return core.Rect{}
}

// Destroyed reports whether e is flagged or no longer exists in the active scene
func (w *World) Destroyed(e core.Entity) bool {
	b, ok := w.Scene().bodies[e]
	return !ok || b.Destroyed
}

// Overlaps is the geometric test between two live bodies
func (w *World) Overlaps(a, b core.Entity) bool {
	ba, ok := w.Body(a)
	if !ok {
		return false
	}
	bb, ok := w.Body(b)
	if !ok {
		return false
	}
	return ba.Bounds.Intersects(bb.Bounds)
}

// OnOverlap subscribes fn in the active scene; it fires every frame two matching bodies intersect
// cancel removes the hook from the scene it was registered in
func (w *World) OnOverlap(kind, otherKind core.Kind, fn func(a, b core.Entity)) (cancel func()) {
	return w.Scene().addOverlapHook(&overlapHook{kind: kind, otherKind: otherKind, fn: fn})
}

// OnOverlapCell subscribes fn in the active scene; it fires every frame a body intersects a matching cell
func (w *World) OnOverlapCell(kind core.Kind, cell core.CellType, fn func(e core.Entity, col, row int)) (cancel func()) {
	return w.Scene().addCellHook(&cellHook{kind: kind, cell: cell, fn: fn})
}

// OnFrame registers fn with the active scene's scheduler
func (w *World) OnFrame(priority int, fn func()) (cancel func()) {
	return w.Scene().addHandler(priority, fn)
}

// Frame returns the number of steps taken
func (w *World) Frame() int64 {
	return w.frame
}

// OnScenePush registers fn to run whenever a scene is pushed
func (w *World) OnScenePush(fn func()) {
	w.pushHandlers = append(w.pushHandlers, fn)
}

// OnScenePop registers fn to run whenever a scene is popped
func (w *World) OnScenePop(fn func()) {
	w.popHandlers = append(w.popHandlers, fn)
}

// Grid returns the active tile map, or nil when the scene has none
func (w *World) Grid() grid.Lookup {
	if t := w.Scene().tiles; t != nil {
		return t
	}
	return nil
}
