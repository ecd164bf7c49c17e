package core

// Rect is an axis-aligned bounding box in world units
// Left/Top are inclusive, Right/Bottom are exclusive (Right = Left + Width)
type Rect struct {
	Left, Top, Right, Bottom int
}

// RectAt builds a Rect from a top-left corner and dimensions
func RectAt(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the horizontal extent, zero for degenerate boxes
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the vertical extent, zero for degenerate boxes
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// Empty reports whether the box covers no area
func (r Rect) Empty() bool {
	return r.Right <= r.Left || r.Bottom <= r.Top
}

// Intersects reports strict overlap; boxes that only share an edge do not intersect
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// Translate returns the box moved by (dx, dy)
func (r Rect) Translate(dx, dy int) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// FloorDiv divides rounding toward negative infinity
// Cell coordinates of negative world positions must not collapse onto cell 0
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
