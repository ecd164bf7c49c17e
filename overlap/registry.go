package overlap

import "github.com/lixenwraith/overlap/core"

// PairHandler receives the body the hook reported first and the body it overlaps
type PairHandler func(e, other core.Entity)

// TileHandler receives the body whose relation to a cell type changed
type TileHandler func(e core.Entity)

type pairEntry struct {
	event     PairEvent
	kind      core.Kind
	otherKind core.Kind
	handler   PairHandler
}

type tileEntry struct {
	event   TileEvent
	kind    core.Kind
	cell    core.CellType
	handler TileHandler
}

// Registry stores handlers keyed by (event, kind, other kind or cell type)
// At most one entry exists per key; registering again replaces the callback.
// Lookup is a linear scan, registries hold tens of entries
type Registry struct {
	pairs []*pairEntry
	tiles []*tileEntry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterPair stores handler under (event, kind, otherKind)
// Returns true if a new entry was appended, false if an existing callback was replaced
func (r *Registry) RegisterPair(event PairEvent, kind, otherKind core.Kind, handler PairHandler) bool {
	if existing := r.findPair(event, kind, otherKind); existing != nil {
		existing.handler = handler
		return false
	}
	r.pairs = append(r.pairs, &pairEntry{event: event, kind: kind, otherKind: otherKind, handler: handler})
	return true
}

// RegisterTile stores handler under (event, kind, cell)
// Returns true if a new entry was appended, false if an existing callback was replaced
func (r *Registry) RegisterTile(event TileEvent, kind core.Kind, cell core.CellType, handler TileHandler) bool {
	if existing := r.findTile(event, kind, cell); existing != nil {
		existing.handler = handler
		return false
	}
	r.tiles = append(r.tiles, &tileEntry{event: event, kind: kind, cell: cell, handler: handler})
	return true
}

// ResolvePair returns the handler for the key, nil if none is registered
func (r *Registry) ResolvePair(event PairEvent, kind, otherKind core.Kind) PairHandler {
	if e := r.findPair(event, kind, otherKind); e != nil {
		return e.handler
	}
	return nil
}

// ResolveTile returns the handler for the key, nil if none is registered
func (r *Registry) ResolveTile(event TileEvent, kind core.Kind, cell core.CellType) TileHandler {
	if e := r.findTile(event, kind, cell); e != nil {
		return e.handler
	}
	return nil
}

// PairCount returns the number of pair entries
func (r *Registry) PairCount() int {
	return len(r.pairs)
}

// TileCount returns the number of tile entries
func (r *Registry) TileCount() int {
	return len(r.tiles)
}

// appendTileCells appends the distinct cell types with a handler for kind, in registration order
func (r *Registry) appendTileCells(dst []core.CellType, kind core.Kind) []core.CellType {
	for _, e := range r.tiles {
		if e.kind != kind {
			continue
		}
		seen := false
		for _, c := range dst {
			if c == e.cell {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, e.cell)
		}
	}
	return dst
}

func (r *Registry) findPair(event PairEvent, kind, otherKind core.Kind) *pairEntry {
	for _, e := range r.pairs {
		if e.event == event && e.kind == kind && e.otherKind == otherKind {
			return e
		}
	}
	return nil
}

func (r *Registry) findTile(event TileEvent, kind core.Kind, cell core.CellType) *tileEntry {
	for _, e := range r.tiles {
		if e.event == event && e.kind == kind && e.cell == cell {
			return e
		}
	}
	return nil
}
