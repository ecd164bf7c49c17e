package overlap

import (
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/grid"
)

// OverlapsCellType reports whether e currently intersects any cell of type cell
// Stateless: it neither reads nor writes ledgers and works for untracked bodies.
// Cells are clamped to the map and tested with strict intersection, so a body
// that only touches a matching cell's edge does not count.
// Missing inputs (nil bodies or grid, zero entity, CellNone) yield false.
func OverlapsCellType(bodies Bodies, g grid.Lookup, e core.Entity, cell core.CellType) bool {
	if bodies == nil || g == nil || e == 0 || cell == core.CellNone {
		return false
	}
	scale := g.Scale()
	if scale <= 0 {
		return false
	}
	b := bodies.Bounds(e)
	if b.Empty() {
		return false
	}

	cols, rows := g.Extents()
	minCol := max(0, core.FloorDiv(b.Left, scale))
	maxCol := min(cols-1, core.FloorDiv(b.Right, scale))
	minRow := max(0, core.FloorDiv(b.Top, scale))
	maxRow := min(rows-1, core.FloorDiv(b.Bottom, scale))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			if g.CellTypeAt(col, row) != cell {
				continue
			}
			if b.Intersects(g.CellRect(col, row)) {
				return true
			}
		}
	}
	return false
}
