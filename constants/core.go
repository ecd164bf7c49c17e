package constants

import "time"

// Frame Loop Timing
const (
	// FrameUpdateInterval is the rendering frame rate interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// GameUpdateInterval is the simulation tick interval
	GameUpdateInterval = 33 * time.Millisecond
)

// Event Feed Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255

	// EventLogLines is how many fired transitions the demo keeps on screen
	EventLogLines = 12
)

// MaxEntitiesPerCell bounds the broad-phase bucket size
// 15 * 8 (Entities) + 1 (Count) + 7 (Padding) = 128 bytes
const MaxEntitiesPerCell = 15

// Frame Handler Priorities (lower runs first)
const (
	// PriorityPhysics moves bodies and reports new overlaps
	PriorityPhysics = 100

	// PriorityOverlap must run after physics so geometry is settled
	PriorityOverlap = PriorityPhysics + 1

	// PriorityCleanup removes bodies flagged destroyed, after every reader
	PriorityCleanup = 900
)

// Grid Defaults
const (
	// DefaultScaleShift gives 1 << 4 = 16 world units per cell
	DefaultScaleShift = 4

	// BroadPhaseCellShift sizes the pair broad-phase buckets (32 units)
	BroadPhaseCellShift = 5
)
