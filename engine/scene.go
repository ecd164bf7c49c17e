package engine

import (
	"slices"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/grid"
)

// Body is the simulated state of one entity
type Body struct {
	Kind      core.Kind
	Bounds    core.Rect
	VX, VY    int  // World units per frame
	Glyph     rune // Render hint
	Destroyed bool // Set by World.Destroy, removed at PriorityCleanup
}

// Subscriptions are pointers so a cancel can mark the entry a dispatch in flight still holds
type frameHandler struct {
	priority  int
	fn        func()
	cancelled bool
}

type overlapHook struct {
	kind, otherKind core.Kind
	fn              func(a, b core.Entity)
	cancelled       bool
}

type cellHook struct {
	kind      core.Kind
	cell      core.CellType
	fn        func(e core.Entity, col, row int)
	cancelled bool
}

// without returns a copy of items lacking item; the old backing array is left for iterations in flight
func without[T comparable](items []T, item T) []T {
	return slices.DeleteFunc(slices.Clone(items), func(x T) bool { return x == item })
}

// Scene owns bodies, an optional tile map and its own frame handlers and hooks
// Only the top scene of a World is stepped
type Scene struct {
	bodies map[core.Entity]*Body
	order  []core.Entity // Creation order, kept for deterministic iteration

	tiles *grid.TileMap
	broad *SpatialGrid

	handlers     []*frameHandler // Sorted by priority, stable
	overlapHooks []*overlapHook
	cellHooks    []*cellHook

	candidates []core.Entity
}

func newScene(tiles *grid.TileMap) *Scene {
	s := &Scene{
		bodies: make(map[core.Entity]*Body),
		tiles:  tiles,
	}
	s.resizeBroadPhase()
	s.addHandler(constants.PriorityPhysics, s.physicsStep)
	s.addHandler(constants.PriorityCleanup, s.cleanup)
	return s
}

// TileMap returns the scene's tile map, nil if none
func (s *Scene) TileMap() *grid.TileMap {
	return s.tiles
}

// Each calls fn for every live body in creation order
func (s *Scene) Each(fn func(e core.Entity, b *Body)) {
	for _, e := range s.order {
		if b := s.bodies[e]; b != nil && !b.Destroyed {
			fn(e, b)
		}
	}
}

// Subscriptions returns the number of frame handlers and hooks registered in the scene
func (s *Scene) Subscriptions() int {
	return len(s.handlers) + len(s.overlapHooks) + len(s.cellHooks)
}

// Count returns the number of bodies, including ones flagged destroyed this frame
func (s *Scene) Count() int {
	return len(s.order)
}

// addHandler inserts keeping priority order; equal priorities run in registration order
func (s *Scene) addHandler(priority int, fn func()) (cancel func()) {
	h := &frameHandler{priority: priority, fn: fn}
	i := len(s.handlers)
	for i > 0 && s.handlers[i-1].priority > priority {
		i--
	}
	s.handlers = slices.Insert(s.handlers, i, h)
	return func() {
		if !h.cancelled {
			h.cancelled = true
			s.handlers = without(s.handlers, h)
		}
	}
}

func (s *Scene) addOverlapHook(h *overlapHook) (cancel func()) {
	s.overlapHooks = append(s.overlapHooks, h)
	return func() {
		if !h.cancelled {
			h.cancelled = true
			s.overlapHooks = without(s.overlapHooks, h)
		}
	}
}

func (s *Scene) addCellHook(h *cellHook) (cancel func()) {
	s.cellHooks = append(s.cellHooks, h)
	return func() {
		if !h.cancelled {
			h.cancelled = true
			s.cellHooks = without(s.cellHooks, h)
		}
	}
}

// step runs every frame handler once
func (s *Scene) step() {
	// Snapshot: handlers may register or cancel handlers
	handlers := slices.Clone(s.handlers)
	for _, h := range handlers {
		if !h.cancelled {
			h.fn()
		}
	}
}

func (s *Scene) resizeBroadPhase() {
	w, h := 16, 16
	if s.tiles != nil {
		cols, rows := s.tiles.Extents()
		cellsPerBucket := max(1, (1<<constants.BroadPhaseCellShift)/s.tiles.Scale())
		w = cols/cellsPerBucket + 1
		h = rows/cellsPerBucket + 1
	}
	if s.broad == nil {
		s.broad = NewSpatialGrid(w, h, constants.BroadPhaseCellShift)
		return
	}
	s.broad.Resize(w, h)
}

// physicsStep integrates velocities then reports overlaps to hooks
func (s *Scene) physicsStep() {
	for _, e := range s.order {
		b := s.bodies[e]
		if b.Destroyed || (b.VX == 0 && b.VY == 0) {
			continue
		}
		b.Bounds = b.Bounds.Translate(b.VX, b.VY)
	}

	if len(s.overlapHooks) > 0 {
		s.broad.Clear()
		for _, e := range s.order {
			if b := s.bodies[e]; !b.Destroyed {
				s.broad.Insert(e, b.Bounds)
			}
		}
		// Range evaluates once: hooks registered during dispatch wait for the next frame
		for _, h := range s.overlapHooks {
			s.reportPairs(h)
		}
	}

	if len(s.cellHooks) > 0 && s.tiles != nil {
		for _, h := range s.cellHooks {
			s.reportCells(h)
		}
	}
}

func (s *Scene) reportPairs(h *overlapHook) {
	for _, e := range s.order {
		a := s.bodies[e]
		if a.Destroyed || a.Kind != h.kind {
			continue
		}
		s.candidates = s.broad.Candidates(s.candidates[:0], a.Bounds)
		for _, o := range s.candidates {
			if o == e {
				continue
			}
			b := s.bodies[o]
			if b == nil || b.Destroyed || b.Kind != h.otherKind {
				continue
			}
			if a.Destroyed {
				break
			}
			if a.Bounds.Intersects(b.Bounds) {
				if h.cancelled {
					return
				}
				h.fn(e, o)
			}
		}
	}
}

func (s *Scene) reportCells(h *cellHook) {
	cols, rows := s.tiles.Extents()
	for _, e := range s.order {
		b := s.bodies[e]
		if b.Destroyed || b.Kind != h.kind || b.Bounds.Empty() {
			continue
		}
		r := b.Bounds
		col0, row0 := s.tiles.CellAt(r.Left, r.Top)
		col1, row1 := s.tiles.CellAt(r.Right-1, r.Bottom-1)
		for row := max(0, row0); row <= min(rows-1, row1); row++ {
			for col := max(0, col0); col <= min(cols-1, col1); col++ {
				if s.tiles.CellTypeAt(col, row) == h.cell && !b.Destroyed {
					if h.cancelled {
						return
					}
					h.fn(e, col, row)
				}
			}
		}
	}
}

// cleanup removes bodies flagged destroyed this frame
func (s *Scene) cleanup() {
	kept := s.order[:0]
	for _, e := range s.order {
		if s.bodies[e].Destroyed {
			delete(s.bodies, e)
			continue
		}
		kept = append(kept, e)
	}
	s.order = kept
}
