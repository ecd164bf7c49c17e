package overlap

import (
	"strings"

	"github.com/lixenwraith/overlap/core"
)

// TileFlag is the 3-bit classification of a body against one cell type
type TileFlag uint8

const (
	// FlagOverlapping: at least one covered cell matches
	FlagOverlapping TileFlag = 1 << iota
	// FlagFullyWithin: the body covers exactly one cell and it matches
	FlagFullyWithin
	// FlagWithinArea: every covered cell matches
	FlagWithinArea

	flagMask = FlagOverlapping | FlagFullyWithin | FlagWithinArea
)

// Has reports whether every bit of f is set
func (t TileFlag) Has(f TileFlag) bool {
	return t&f == f
}

func (t TileFlag) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	if t&FlagOverlapping != 0 {
		parts = append(parts, "overlapping")
	}
	if t&FlagFullyWithin != 0 {
		parts = append(parts, "within")
	}
	if t&FlagWithinArea != 0 {
		parts = append(parts, "area")
	}
	return strings.Join(parts, "|")
}

// CellLookup maps a cell coordinate to its type
type CellLookup interface {
	CellTypeAt(col, row int) core.CellType
}

// boundedLookup is a CellLookup that knows its size in cells
type boundedLookup interface {
	CellLookup
	Extents() (cols, rows int)
}

// CellSpan returns the inclusive cell range covered by bounds
// ok is false when bounds cover no cell (degenerate box or non-positive scale)
func CellSpan(bounds core.Rect, scale int) (col0, row0, col1, row1 int, ok bool) {
	if scale <= 0 || bounds.Empty() {
		return 0, 0, 0, 0, false
	}
	col0 = core.FloorDiv(bounds.Left, scale)
	row0 = core.FloorDiv(bounds.Top, scale)
	col1 = core.FloorDiv(bounds.Right-1, scale)
	row1 = core.FloorDiv(bounds.Bottom-1, scale)
	return col0, row0, col1, row1, true
}

// Classify computes the flags of bounds against cell type target
// Pure function of its inputs; the scan stops once the result is decided
func Classify(bounds core.Rect, scale int, target core.CellType, cells CellLookup) TileFlag {
	if cells == nil || target == core.CellNone {
		return 0
	}
	col0, row0, col1, row1, ok := CellSpan(bounds, scale)
	if !ok {
		return 0
	}

	// Single cell: all three bits move together
	if col0 == col1 && row0 == row1 {
		if cells.CellTypeAt(col0, row0) == target {
			return flagMask
		}
		return 0
	}

	overlapping := false
	allMatch := true

	// Off-map cells never match, so only the on-map part needs reading
	if b, ok := cells.(boundedLookup); ok {
		cols, rows := b.Extents()
		if col0 < 0 || row0 < 0 || col1 >= cols || row1 >= rows {
			allMatch = false
			col0, row0 = max(col0, 0), max(row0, 0)
			col1, row1 = min(col1, cols-1), min(row1, rows-1)
		}
	}

scan:
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			if cells.CellTypeAt(col, row) == target {
				overlapping = true
			} else {
				allMatch = false
			}
			if overlapping && !allMatch {
				break scan
			}
		}
	}

	// FullyWithin is single-cell only; a multi-cell span can at most be WithinArea
	var flags TileFlag
	if overlapping {
		flags |= FlagOverlapping
		if allMatch {
			flags |= FlagWithinArea
		}
	}
	return flags
}
