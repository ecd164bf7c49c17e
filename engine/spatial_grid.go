package engine

import (
	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/core"
)

// Cell represents a single broad-phase bucket containing a fixed number of entities
// It is a value type designed for contiguous memory layout
type Cell struct {
	Count    uint8
	_        [7]byte // Explicit padding to ensure 8-byte alignment for Entities
	Entities [constants.MaxEntitiesPerCell]core.Entity
}

// SpatialGrid is a dense 2D bucket grid for pair candidate queries
// Bodies spanning several buckets are added to each; bodies beyond full buckets
// spill into an overflow list that every query returns, so no pair is missed
type SpatialGrid struct {
	Width    int
	Height   int
	shift    int
	Cells    []Cell // 1D array: index = y*Width + x
	overflow []core.Entity
}

// NewSpatialGrid creates a new grid with the specified bucket dimensions
// Each bucket covers 1 << shift world units per side
func NewSpatialGrid(width, height, shift int) *SpatialGrid {
	return &SpatialGrid{
		Width:  max(width, 1),
		Height: max(height, 1),
		shift:  shift,
		Cells:  make([]Cell, max(width, 1)*max(height, 1)),
	}
}

// span returns the clamped bucket range covered by r
// Out-of-range bodies collapse onto edge buckets; the exact test happens later
func (g *SpatialGrid) span(r core.Rect) (x0, y0, x1, y1 int) {
	size := 1 << g.shift
	x0 = clamp(core.FloorDiv(r.Left, size), 0, g.Width-1)
	y0 = clamp(core.FloorDiv(r.Top, size), 0, g.Height-1)
	x1 = clamp(core.FloorDiv(r.Right-1, size), 0, g.Width-1)
	y1 = clamp(core.FloorDiv(r.Bottom-1, size), 0, g.Height-1)
	return x0, y0, x1, y1
}

// Insert adds e to every bucket its bounds cover
func (g *SpatialGrid) Insert(e core.Entity, r core.Rect) {
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := g.span(r)
	spilled := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !g.add(e, x, y) && !spilled {
				g.overflow = append(g.overflow, e)
				spilled = true
			}
		}
	}
}

// add inserts an entity into the bucket at (x, y)
// O(1), returns false if the bucket is full
func (g *SpatialGrid) add(e core.Entity, x, y int) bool {
	cell := &g.Cells[y*g.Width+x] // Get pointer to avoid copy
	if cell.Count < constants.MaxEntitiesPerCell {
		cell.Entities[cell.Count] = e
		cell.Count++
		return true
	}
	return false
}

// Candidates appends every entity sharing a bucket with r, deduplicated, to dst
func (g *SpatialGrid) Candidates(dst []core.Entity, r core.Rect) []core.Entity {
	if r.Empty() {
		return dst
	}
	start := len(dst)
	x0, y0, x1, y1 := g.span(r)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cell := &g.Cells[y*g.Width+x]
			for i := uint8(0); i < cell.Count; i++ {
				dst = appendUnique(dst, start, cell.Entities[i])
			}
		}
	}
	for _, e := range g.overflow {
		dst = appendUnique(dst, start, e)
	}
	return dst
}

// Clear removes all entities from all buckets
func (g *SpatialGrid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Count = 0
	}
	g.overflow = g.overflow[:0]
}

// Resize resizes the grid, clearing all data
func (g *SpatialGrid) Resize(newWidth, newHeight int) {
	g.Width = max(newWidth, 1)
	g.Height = max(newHeight, 1)
	g.Cells = make([]Cell, g.Width*g.Height)
	g.overflow = g.overflow[:0]
}

func appendUnique(dst []core.Entity, start int, e core.Entity) []core.Entity {
	for _, existing := range dst[start:] {
		if existing == e {
			return dst
		}
	}
	return append(dst, e)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
