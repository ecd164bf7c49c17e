package engine

import (
	"testing"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/grid"
)

const (
	kindPlayer core.Kind = 1
	kindCoin   core.Kind = 2
)

// TestWorld_FrameHandlerOrder verifies priority ordering with stable ties
func TestWorld_FrameHandlerOrder(t *testing.T) {
	w := NewWorld(nil)
	var order []string

	w.OnFrame(50, func() { order = append(order, "b") })
	w.OnFrame(10, func() { order = append(order, "a") })
	w.OnFrame(50, func() { order = append(order, "c") })
	w.OnFrame(constants.PriorityOverlap, func() { order = append(order, "overlap") })

	w.Step()

	want := []string{"a", "b", "c", "overlap"}
	if len(order) != len(want) {
		t.Fatalf("Expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if w.Frame() != 1 {
		t.Errorf("Expected frame 1, got %d", w.Frame())
	}
}

// TestWorld_PhysicsBeforeOverlapPriority verifies geometry is settled when the overlap pass runs
func TestWorld_PhysicsBeforeOverlapPriority(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateBody(kindPlayer, core.RectAt(0, 0, 4, 4))
	w.SetVelocity(e, 3, 0)

	var seen int
	w.OnFrame(constants.PriorityOverlap, func() { seen = w.Bounds(e).Left })
	w.Step()

	if seen != 3 {
		t.Errorf("Expected moved position 3 during overlap priority, got %d", seen)
	}
}

// TestWorld_OverlapHookFiresWhileIntersecting verifies the collision collaborator contract
func TestWorld_OverlapHookFiresWhileIntersecting(t *testing.T) {
	w := NewWorld(nil)
	p := w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	c := w.CreateBody(kindCoin, core.RectAt(4, 4, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(100, 100, 8, 8))

	calls := 0
	w.OnOverlap(kindPlayer, kindCoin, func(a, b core.Entity) {
		if a != p || b != c {
			t.Errorf("Unexpected pair (%d,%d)", a, b)
		}
		calls++
	})

	w.Step()
	w.Step()
	if calls != 2 {
		t.Errorf("Expected hook every frame while intersecting, got %d calls", calls)
	}

	// Edge contact is not an overlap
	w.SetPosition(c, 8, 0)
	w.Step()
	if calls != 2 {
		t.Errorf("Expected no call for touching edges, got %d calls", calls)
	}
	if w.Overlaps(p, c) {
		t.Error("Expected Overlaps false for touching edges")
	}
}

// TestWorld_CellHookReportsMatchingCells verifies per-cell reporting
func TestWorld_CellHookReportsMatchingCells(t *testing.T) {
	tiles := grid.NewTileMap(4, 4, 4)
	tiles.SetCell(1, 0, 3)
	tiles.SetCell(2, 0, 3)
	w := NewWorld(tiles)

	// Covers columns 1 and 2 of row 0
	e := w.CreateBody(kindPlayer, core.RectAt(20, 2, 20, 8))

	var cols []int
	w.OnOverlapCell(kindPlayer, 3, func(got core.Entity, col, row int) {
		if got != e || row != 0 {
			t.Errorf("Unexpected report (%d, %d, %d)", got, col, row)
		}
		cols = append(cols, col)
	})
	w.Step()

	if len(cols) != 2 || cols[0] != 1 || cols[1] != 2 {
		t.Errorf("Expected columns [1 2], got %v", cols)
	}
}

// TestWorld_DestroyIsDeferredToCleanup verifies flag-then-remove semantics
func TestWorld_DestroyIsDeferredToCleanup(t *testing.T) {
	w := NewWorld(nil)
	e := w.CreateBody(kindPlayer, core.RectAt(0, 0, 4, 4))

	var flaggedDuringFrame bool
	w.OnFrame(constants.PriorityOverlap, func() {
		w.Destroy(e)
		flaggedDuringFrame = w.Destroyed(e)
	})
	w.Step()

	if !flaggedDuringFrame {
		t.Error("Expected Destroyed true right after Destroy")
	}
	if w.Scene().Count() != 0 {
		t.Errorf("Expected cleanup to remove the body, %d remain", w.Scene().Count())
	}
	if !w.Bounds(e).Empty() {
		t.Error("Expected empty bounds for removed body")
	}
}

// TestWorld_SceneStackIsolation verifies scenes own bodies, handlers and hooks
func TestWorld_SceneStackIsolation(t *testing.T) {
	w := NewWorld(nil)
	var pushes, pops int
	w.OnScenePush(func() { pushes++ })
	w.OnScenePop(func() { pops++ })

	outer := w.CreateBody(kindPlayer, core.RectAt(0, 0, 4, 4))
	outerTicks := 0
	w.OnFrame(10, func() { outerTicks++ })

	w.PushScene(grid.NewTileMap(2, 2, 4))
	if pushes != 1 || w.SceneDepth() != 2 {
		t.Fatalf("Expected one push notification and depth 2, got %d/%d", pushes, w.SceneDepth())
	}
	if !w.Destroyed(outer) {
		t.Error("Expected outer body invisible from inner scene")
	}
	if w.Grid() == nil {
		t.Error("Expected inner scene grid")
	}

	w.Step()
	if outerTicks != 0 {
		t.Error("Expected outer handlers to stay idle while inner scene is active")
	}

	w.PopScene()
	if pops != 1 || w.Destroyed(outer) {
		t.Error("Expected pop notification and outer body restored")
	}
	if w.Grid() != nil {
		t.Error("Expected nil grid for root scene without tile map")
	}
	w.Step()
	if outerTicks != 1 {
		t.Errorf("Expected outer handler to resume, got %d ticks", outerTicks)
	}
}

// TestWorld_PopRootKeepsOneScene verifies the scene stack is never empty
func TestWorld_PopRootKeepsOneScene(t *testing.T) {
	w := NewWorld(nil)
	w.CreateBody(kindPlayer, core.RectAt(0, 0, 4, 4))
	w.PopScene()

	if w.SceneDepth() != 1 || w.Scene().Count() != 0 {
		t.Errorf("Expected fresh empty root scene, depth=%d count=%d", w.SceneDepth(), w.Scene().Count())
	}
}

// TestWorld_CancelUnsubscribes verifies cancel removes handlers and hooks, even mid-frame
func TestWorld_CancelUnsubscribes(t *testing.T) {
	w := NewWorld(grid.NewTileMap(2, 2, 4))
	base := w.Scene().Subscriptions()

	var ticks, late, pairs, cells int
	var cancelLate func()
	cancelTick := w.OnFrame(10, func() {
		ticks++
		cancelLate()
	})
	cancelLate = w.OnFrame(20, func() { late++ })
	cancelPair := w.OnOverlap(kindPlayer, kindCoin, func(a, b core.Entity) { pairs++ })
	cancelCell := w.OnOverlapCell(kindPlayer, core.CellNone, func(e core.Entity, col, row int) { cells++ })
	if got := w.Scene().Subscriptions(); got != base+4 {
		t.Fatalf("Expected %d subscriptions, got %d", base+4, got)
	}

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 4, 4))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 4, 4))
	w.Step()
	if ticks != 1 || late != 0 {
		t.Errorf("Expected handler cancelled mid-frame to be skipped, got ticks=%d late=%d", ticks, late)
	}
	if pairs != 1 || cells != 1 {
		t.Errorf("Expected one pair and one cell report, got %d/%d", pairs, cells)
	}

	cancelTick()
	cancelPair()
	cancelCell()
	cancelCell()
	if got := w.Scene().Subscriptions(); got != base {
		t.Errorf("Expected %d subscriptions after cancel, got %d", base, got)
	}

	w.Step()
	if ticks != 1 || pairs != 1 || cells != 1 {
		t.Errorf("Expected no calls after cancel, got ticks=%d pairs=%d cells=%d", ticks, pairs, cells)
	}
}
