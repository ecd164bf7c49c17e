// Package grid provides the dense tile map the overlap tracker classifies bodies against
package grid

import "github.com/lixenwraith/overlap/core"

// TileMap is a dense 2D grid of cell types
// Cells use a 1D layout: index = row*Width + col
type TileMap struct {
	Width  int // Columns
	Height int // Rows
	shift  int // Cell size is 1 << shift world units
	cells  []core.CellType
}

// NewTileMap creates a map of width x height cells, all set to core.CellNone
func NewTileMap(width, height, scaleShift int) *TileMap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if scaleShift < 0 {
		scaleShift = 0
	}
	m := &TileMap{
		Width:  width,
		Height: height,
		shift:  scaleShift,
		cells:  make([]core.CellType, width*height),
	}
	m.Fill(core.CellNone)
	return m
}

// Scale returns the cell edge length in world units (always a power of two)
func (m *TileMap) Scale() int {
	return 1 << m.shift
}

// ScaleShift returns log2 of Scale
func (m *TileMap) ScaleShift() int {
	return m.shift
}

// Extents returns the map size in cells
func (m *TileMap) Extents() (cols, rows int) {
	return m.Width, m.Height
}

// InBounds reports whether (col, row) addresses a cell
func (m *TileMap) InBounds(col, row int) bool {
	return col >= 0 && col < m.Width && row >= 0 && row < m.Height
}

// CellTypeAt returns the type at (col, row), core.CellNone outside the map
func (m *TileMap) CellTypeAt(col, row int) core.CellType {
	if !m.InBounds(col, row) {
		return core.CellNone
	}
	return m.cells[row*m.Width+col]
}

// SetCell writes a cell type, returns false if out of bounds
func (m *TileMap) SetCell(col, row int, ct core.CellType) bool {
	if !m.InBounds(col, row) {
		return false
	}
	m.cells[row*m.Width+col] = ct
	return true
}

// Fill sets every cell to ct
func (m *TileMap) Fill(ct core.CellType) {
	for i := range m.cells {
		m.cells[i] = ct
	}
}

// CellRect returns the world-space box of a cell
func (m *TileMap) CellRect(col, row int) core.Rect {
	s := m.Scale()
	return core.RectAt(col*s, row*s, s, s)
}

// CellAt returns the cell coordinate containing a world point
func (m *TileMap) CellAt(x, y int) (col, row int) {
	s := m.Scale()
	return core.FloorDiv(x, s), core.FloorDiv(y, s)
}

// Lookup is the read-only view of a tile map consumed by overlap tracking
type Lookup interface {
	CellTypeAt(col, row int) core.CellType
	CellRect(col, row int) core.Rect
	Scale() int
	Extents() (cols, rows int)
}

var _ Lookup = (*TileMap)(nil)
