package overlap

import (
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/grid"
)

// Bodies exposes the entity attributes the tracker reads
// Bounds of an unknown entity must be an empty Rect
type Bodies interface {
	Kind(e core.Entity) core.Kind
	Bounds(e core.Entity) core.Rect
	Destroyed(e core.Entity) bool
}

// Physics is the collision collaborator
// OnOverlap fires while two bodies of the given kinds intersect; the tracker
// only acts on the first report. OnOverlapCell fires while a body of kind
// intersects a cell of type cell. The returned cancel unsubscribes fn.
type Physics interface {
	Overlaps(a, b core.Entity) bool
	OnOverlap(kind, otherKind core.Kind, fn func(a, b core.Entity)) (cancel func())
	OnOverlapCell(kind core.Kind, cell core.CellType, fn func(e core.Entity, col, row int)) (cancel func())
}

// Scheduler registers a callback invoked once per frame in the current scene
// Lower priorities run first
type Scheduler interface {
	OnFrame(priority int, fn func()) (cancel func())
	Frame() int64
}

// Scenes notifies when nested scenes begin or end and exposes the active tile map
// Grid returns nil when the active scene has no tile map
type Scenes interface {
	OnScenePush(fn func())
	OnScenePop(fn func())
	Grid() grid.Lookup
}

// Host is everything the tracker needs from the simulation
type Host interface {
	Bodies
	Physics
	Scheduler
	Scenes
}
