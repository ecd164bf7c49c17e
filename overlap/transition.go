package overlap

import "github.com/lixenwraith/overlap/events"

// PairEvent selects which edge of a body-vs-body overlap a handler reacts to
type PairEvent int

const (
	PairStart PairEvent = iota // Bodies began overlapping
	PairStop                   // Bodies stopped overlapping
)

func (e PairEvent) String() string {
	switch e {
	case PairStart:
		return "PairStart"
	case PairStop:
		return "PairStop"
	}
	return "PairUnknown"
}

// feedType maps the event onto the observer feed
func (e PairEvent) feedType() events.EventType {
	if e == PairStop {
		return events.EventPairStop
	}
	return events.EventPairStart
}

// TileEvent selects which edge of a body-vs-cell-type relation a handler reacts to
type TileEvent int

const (
	TileStartOverlap TileEvent = iota // Touches a matching cell
	TileStopOverlap                   // Touches no matching cell
	TileEnter                         // Fully within one matching cell
	TileExit                          // No longer fully within one matching cell
	TileEntersArea                    // Every covered cell matches
	TileExitsArea                     // Some covered cell stopped matching
)

var tileEventNames = [...]string{
	TileStartOverlap: "TileStartOverlap",
	TileStopOverlap:  "TileStopOverlap",
	TileEnter:        "TileEnter",
	TileExit:         "TileExit",
	TileEntersArea:   "TileEntersArea",
	TileExitsArea:    "TileExitsArea",
}

func (e TileEvent) String() string {
	if e >= 0 && int(e) < len(tileEventNames) {
		return tileEventNames[e]
	}
	return "TileUnknown"
}

var tileFeedTypes = [...]events.EventType{
	TileStartOverlap: events.EventTileStartOverlap,
	TileStopOverlap:  events.EventTileStopOverlap,
	TileEnter:        events.EventTileEnter,
	TileExit:         events.EventTileExit,
	TileEntersArea:   events.EventTileEntersArea,
	TileExitsArea:    events.EventTileExitsArea,
}

func (e TileEvent) feedType() events.EventType {
	return tileFeedTypes[e]
}

// ParsePairEvent resolves a pair event by name, used by scenario files
func ParsePairEvent(name string) (PairEvent, bool) {
	switch name {
	case "PairStart", "start":
		return PairStart, true
	case "PairStop", "stop":
		return PairStop, true
	}
	return 0, false
}

// ParseTileEvent resolves a tile event by name, used by scenario files
func ParseTileEvent(name string) (TileEvent, bool) {
	for i, n := range tileEventNames {
		if n == name {
			return TileEvent(i), true
		}
	}
	return 0, false
}

// Transition is one edge detected by Diff
type Transition struct {
	Event TileEvent
	Enter bool // Bit turned on
}

// bitEvents pairs each flag bit with its on/off events, in firing order
var bitEvents = [...]struct {
	bit     TileFlag
	on, off TileEvent
}{
	{FlagOverlapping, TileStartOverlap, TileStopOverlap},
	{FlagFullyWithin, TileEnter, TileExit},
	{FlagWithinArea, TileEntersArea, TileExitsArea},
}

// Diff returns the transitions implied by moving from oldFlags to newFlags
// Bits are independent: each contributes at most one transition, in the order
// Overlapping, FullyWithin, WithinArea
func Diff(oldFlags, newFlags TileFlag) []Transition {
	if oldFlags == newFlags {
		return nil
	}
	out := make([]Transition, 0, len(bitEvents))
	for _, be := range bitEvents {
		was, is := oldFlags&be.bit != 0, newFlags&be.bit != 0
		switch {
		case is && !was:
			out = append(out, Transition{Event: be.on, Enter: true})
		case was && !is:
			out = append(out, Transition{Event: be.off})
		}
	}
	return out
}
