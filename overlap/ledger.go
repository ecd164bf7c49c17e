package overlap

import "github.com/lixenwraith/overlap/core"

// TileState is the stored classification of one body against one cell type
type TileState struct {
	Cell  core.CellType
	Flags TileFlag
}

// Ledger is the per-body record of current overlap state
// Owned by the Context that created it; discarded when the body is pruned
type Ledger struct {
	owner       core.Entity
	overlapping []core.Entity // Insertion order, no duplicates
	tiles       map[core.CellType]*TileState
}

func newLedger(owner core.Entity) *Ledger {
	return &Ledger{
		owner: owner,
		tiles: make(map[core.CellType]*TileState),
	}
}

// Owner returns the body this ledger belongs to
func (l *Ledger) Owner() core.Entity {
	return l.owner
}

// Overlapping returns a copy of the bodies currently recorded as overlapping the owner
func (l *Ledger) Overlapping() []core.Entity {
	out := make([]core.Entity, len(l.overlapping))
	copy(out, l.overlapping)
	return out
}

// IsOverlapping reports whether other is recorded as overlapping the owner
func (l *Ledger) IsOverlapping(other core.Entity) bool {
	for _, e := range l.overlapping {
		if e == other {
			return true
		}
	}
	return false
}

// addOverlap records other, returns false if it was already recorded
func (l *Ledger) addOverlap(other core.Entity) bool {
	if l.IsOverlapping(other) {
		return false
	}
	l.overlapping = append(l.overlapping, other)
	return true
}

// removeOverlap forgets other, preserving the order of the rest
func (l *Ledger) removeOverlap(other core.Entity) bool {
	for i, e := range l.overlapping {
		if e == other {
			l.overlapping = append(l.overlapping[:i], l.overlapping[i+1:]...)
			return true
		}
	}
	return false
}

// TileFlags returns the stored flags for cell, zero if no state exists
func (l *Ledger) TileFlags(cell core.CellType) TileFlag {
	if ts, ok := l.tiles[cell]; ok {
		return ts.Flags
	}
	return 0
}

// TileCount returns the number of live TileState records
func (l *Ledger) TileCount() int {
	return len(l.tiles)
}

// tileEntry returns the state for cell, creating it when create is set
func (l *Ledger) tileEntry(cell core.CellType, create bool) *TileState {
	if ts, ok := l.tiles[cell]; ok {
		return ts
	}
	if !create {
		return nil
	}
	ts := &TileState{Cell: cell}
	l.tiles[cell] = ts
	return ts
}

// dropExhausted removes the state for cell if its flags returned to zero
func (l *Ledger) dropExhausted(cell core.CellType) {
	if ts, ok := l.tiles[cell]; ok && ts.Flags == 0 {
		delete(l.tiles, cell)
	}
}
