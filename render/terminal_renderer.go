package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/engine"
)

const (
	emptyGlyph = '.'
	logGap     = 2 // Columns between the map and the event log
)

// TerminalRenderer draws one grid cell per terminal column, bodies on top,
// the event log to the right and a status bar on the last row
type TerminalRenderer struct {
	screen tcell.Screen
	legend map[core.CellType]rune

	// Highlight reports whether a body should be drawn in the hit color
	Highlight func(e core.Entity) bool
}

// NewTerminalRenderer creates a renderer; legend maps cell types to glyphs
func NewTerminalRenderer(screen tcell.Screen, legend map[core.CellType]rune) *TerminalRenderer {
	if legend == nil {
		legend = make(map[core.CellType]rune)
	}
	return &TerminalRenderer{screen: screen, legend: legend}
}

// RenderFrame renders the entire frame and shows it
func (r *TerminalRenderer) RenderFrame(scene *engine.Scene, log *EventLog, status string) {
	r.screen.Clear()
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	width, height := r.screen.Size()
	mapHeight := height - 1

	mapWidth := r.drawTiles(scene, mapHeight, defaultStyle)
	r.drawBodies(scene, mapWidth, mapHeight, defaultStyle)
	if log != nil {
		r.drawLog(log, mapWidth+logGap, width, mapHeight, defaultStyle)
	}
	r.drawStatusBar(status, width, height-1)

	r.screen.Show()
}

// drawTiles returns the number of columns used by the map
func (r *TerminalRenderer) drawTiles(scene *engine.Scene, maxRows int, style tcell.Style) int {
	tiles := scene.TileMap()
	if tiles == nil {
		return 0
	}
	cols, rows := tiles.Extents()
	for row := 0; row < rows && row < maxRows; row++ {
		for col := 0; col < cols; col++ {
			cell := tiles.CellTypeAt(col, row)
			glyph, ok := r.legend[cell]
			if !ok {
				glyph = emptyGlyph
			}
			r.screen.SetContent(col, row, glyph, nil, style.Foreground(CellColor(int(cell))))
		}
	}
	return cols
}

func (r *TerminalRenderer) drawBodies(scene *engine.Scene, maxCols, maxRows int, style tcell.Style) {
	scale := 1 << constants.DefaultScaleShift
	if tiles := scene.TileMap(); tiles != nil {
		scale = tiles.Scale()
	} else {
		maxCols, _ = r.screen.Size()
	}

	scene.Each(func(e core.Entity, b *engine.Body) {
		if b.Bounds.Empty() {
			return
		}
		fg := RgbBody
		if r.Highlight != nil && r.Highlight(e) {
			fg = RgbBodyHit
		}
		glyph := b.Glyph
		if glyph == 0 {
			glyph = '@'
		}

		col0 := max(0, core.FloorDiv(b.Bounds.Left, scale))
		row0 := max(0, core.FloorDiv(b.Bounds.Top, scale))
		col1 := min(maxCols-1, core.FloorDiv(b.Bounds.Right-1, scale))
		row1 := min(maxRows-1, core.FloorDiv(b.Bounds.Bottom-1, scale))
		for row := row0; row <= row1; row++ {
			for col := col0; col <= col1; col++ {
				r.screen.SetContent(col, row, glyph, nil, style.Foreground(fg).Bold(true))
			}
		}
	})
}

func (r *TerminalRenderer) drawLog(log *EventLog, x, width, maxRows int, style tcell.Style) {
	lines := log.Lines()
	if len(lines) > maxRows {
		lines = lines[len(lines)-maxRows:]
	}
	logStyle := style.Foreground(RgbLogText)
	for i, line := range lines {
		r.drawText(x, i, width, line, logStyle)
	}
}

func (r *TerminalRenderer) drawStatusBar(status string, width, y int) {
	style := tcell.StyleDefault.Foreground(RgbStatusBar).Background(RgbStatusBg)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
	r.drawText(0, y, width, status, style)
}

func (r *TerminalRenderer) drawText(x, y, width int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= width {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
