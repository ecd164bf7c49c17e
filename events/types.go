package events

import (
	"time"

	"github.com/lixenwraith/overlap/core"
)

// EventType represents the type of overlap event published to observers
type EventType int

const (
	// EventTick is the zero value, never published
	EventTick EventType = iota

	// EventPairStart signals two bodies began overlapping
	// Trigger: physics overlap hook, first detection only | Payload: *PairPayload
	EventPairStart

	// EventPairStop signals a recorded pair no longer overlaps
	// Trigger: per-frame scan | Payload: *PairPayload
	EventPairStop

	// EventTileStartOverlap signals a body now touches at least one matching cell
	// Payload: *TilePayload
	EventTileStartOverlap

	// EventTileStopOverlap signals a body touches no matching cell anymore
	// Payload: *TilePayload
	EventTileStopOverlap

	// EventTileEnter signals a body is contained in exactly one matching cell
	// Payload: *TilePayload
	EventTileEnter

	// EventTileExit signals a body left single-cell containment
	// Payload: *TilePayload
	EventTileExit

	// EventTileEntersArea signals every cell under a body matches
	// Payload: *TilePayload
	EventTileEntersArea

	// EventTileExitsArea signals at least one cell under a body stopped matching
	// Payload: *TilePayload
	EventTileExitsArea

	// EventContextPush signals a nested tracking context became active
	// Payload: *ContextPayload
	EventContextPush

	// EventContextPop signals the active tracking context was discarded
	// Payload: *ContextPayload
	EventContextPop
)

// GameEvent represents a single published event with metadata
type GameEvent struct {
	Type      EventType
	Payload   any
	Frame     int64 // Frame in which the transition was observed
	Timestamp time.Time
}

// PairPayload describes an entity-pair transition
type PairPayload struct {
	Entity    core.Entity
	Other     core.Entity
	Kind      core.Kind
	OtherKind core.Kind
}

// TilePayload describes an entity-vs-cell-type transition
type TilePayload struct {
	Entity core.Entity
	Kind   core.Kind
	Cell   core.CellType
}

// ContextPayload carries the stack depth after a push or pop
type ContextPayload struct {
	Depth int
}
