package render

import "github.com/gdamore/tcell/v2"

// RGB color definitions
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbGridEmpty  = tcell.NewRGBColor(60, 60, 70)    // Unassigned cells
	RgbBody       = tcell.NewRGBColor(255, 255, 255) // Bodies with no overlap state
	RgbBodyHit    = tcell.NewRGBColor(255, 165, 0)   // Bodies recorded as overlapping
	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255)
	RgbStatusBg   = tcell.NewRGBColor(60, 100, 200)
	RgbLogText    = tcell.NewRGBColor(180, 180, 180)
)

// cellPalette cycles foreground colors by cell type
var cellPalette = []tcell.Color{
	tcell.NewRGBColor(120, 90, 60),   // Brown
	tcell.NewRGBColor(60, 100, 200),  // Blue
	tcell.NewRGBColor(0, 200, 0),     // Green
	tcell.NewRGBColor(255, 80, 80),   // Red
	tcell.NewRGBColor(255, 255, 0),   // Yellow
	tcell.NewRGBColor(0, 200, 200),   // Cyan
	tcell.NewRGBColor(128, 0, 128),   // Purple
	tcell.NewRGBColor(200, 200, 200), // Gray
}

// CellColor returns the palette color for a cell type, a dim gray for unassigned cells
func CellColor(cell int) tcell.Color {
	if cell < 0 {
		return RgbGridEmpty
	}
	return cellPalette[cell%len(cellPalette)]
}
