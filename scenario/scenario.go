// Package scenario loads demo worlds from YAML: a character grid, a legend,
// bodies and the overlap handlers to register
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/grid"
	"github.com/lixenwraith/overlap/overlap"
)

var (
	ErrEmptyGrid     = errors.New("grid has no cells")
	ErrUnknownCell   = errors.New("unknown cell type")
	ErrUnknownKind   = errors.New("unknown body kind")
	ErrUnknownEvent  = errors.New("unknown event")
	ErrUnknownAction = errors.New("unknown action")
	ErrBadBody       = errors.New("invalid body")
	ErrBadScaleShift = errors.New("scale_shift out of range")
)

const (
	maxScaleShift    = 10
	blankGlyph       = ' '
	defaultBodyGlyph = '@'
)

// Scenario is the decoded YAML document
type Scenario struct {
	Name       string            `yaml:"name"`
	ScaleShift int               `yaml:"scale_shift"`
	Cells      []string          `yaml:"cells"`  // Cell type names, id = index
	Kinds      []string          `yaml:"kinds"`  // Body kind names, id = index + 1
	Legend     map[string]string `yaml:"legend"` // Grid character -> cell name
	Grid       []string          `yaml:"grid"`
	Bodies     []BodySpec        `yaml:"bodies"`
	Handlers   []HandlerSpec     `yaml:"handlers"`
}

// BodySpec places one body in world units
type BodySpec struct {
	Kind  string `yaml:"kind"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
	W     int    `yaml:"w"`
	H     int    `yaml:"h"`
	VX    int    `yaml:"vx,omitempty"`
	VY    int    `yaml:"vy,omitempty"`
	Glyph string `yaml:"glyph,omitempty"`
}

// HandlerSpec registers one handler: pair handlers set Other, tile handlers set Cell
type HandlerSpec struct {
	Event  string `yaml:"event"`
	Kind   string `yaml:"kind"`
	Other  string `yaml:"other,omitempty"`
	Cell   string `yaml:"cell,omitempty"`
	Action string `yaml:"action,omitempty"`
}

// IsPair reports whether the handler targets another body kind
func (h HandlerSpec) IsPair() bool {
	return h.Other != ""
}

// Load reads and validates the scenario at path
func Load(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a scenario, rejecting unknown fields, then validates it
func Parse(r io.Reader) (*Scenario, error) {
	sc := &Scenario{ScaleShift: constants.DefaultScaleShift}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	sc.normalize()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scenario) normalize() {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		sc.Name = "untitled"
	}
	for i := range sc.Handlers {
		h := &sc.Handlers[i]
		h.Action = strings.ToLower(strings.TrimSpace(h.Action))
		if h.Action == "" {
			h.Action = ActionNone
		}
	}
}

// Validate checks every name reference and geometry constraint
func (sc *Scenario) Validate() error {
	if sc.ScaleShift < 0 || sc.ScaleShift > maxScaleShift {
		return fmt.Errorf("%w: %d", ErrBadScaleShift, sc.ScaleShift)
	}
	cols, rows := sc.extents()
	if cols == 0 || rows == 0 {
		return ErrEmptyGrid
	}

	for ch, name := range sc.Legend {
		if utf8.RuneCountInString(ch) != 1 {
			return fmt.Errorf("%w: legend key %q must be one character", ErrUnknownCell, ch)
		}
		if _, ok := sc.CellType(name); !ok {
			return fmt.Errorf("%w: legend %q -> %q", ErrUnknownCell, ch, name)
		}
	}
	for row, line := range sc.Grid {
		for col, ch := range []rune(line) {
			if ch == blankGlyph {
				continue
			}
			if _, ok := sc.Legend[string(ch)]; !ok {
				return fmt.Errorf("%w: %q at row %d col %d", ErrUnknownCell, ch, row, col)
			}
		}
	}

	for i, b := range sc.Bodies {
		if _, ok := sc.Kind(b.Kind); !ok {
			return fmt.Errorf("%w: body %d: %w %q", ErrBadBody, i, ErrUnknownKind, b.Kind)
		}
		if b.W <= 0 || b.H <= 0 {
			return fmt.Errorf("%w: body %d: size %dx%d", ErrBadBody, i, b.W, b.H)
		}
		if utf8.RuneCountInString(b.Glyph) > 1 {
			return fmt.Errorf("%w: body %d: glyph %q", ErrBadBody, i, b.Glyph)
		}
	}

	for i, h := range sc.Handlers {
		if err := sc.validateHandler(h); err != nil {
			return fmt.Errorf("handler %d: %w", i, err)
		}
	}
	return nil
}

func (sc *Scenario) validateHandler(h HandlerSpec) error {
	if _, ok := sc.Kind(h.Kind); !ok {
		return fmt.Errorf("%w %q", ErrUnknownKind, h.Kind)
	}
	if !validAction(h.Action) {
		return fmt.Errorf("%w %q", ErrUnknownAction, h.Action)
	}
	if h.IsPair() {
		if h.Cell != "" {
			return fmt.Errorf("%w: %q sets both other and cell", ErrUnknownEvent, h.Event)
		}
		if _, ok := overlap.ParsePairEvent(h.Event); !ok {
			return fmt.Errorf("%w %q", ErrUnknownEvent, h.Event)
		}
		if _, ok := sc.Kind(h.Other); !ok {
			return fmt.Errorf("%w %q", ErrUnknownKind, h.Other)
		}
		return nil
	}
	if _, ok := overlap.ParseTileEvent(h.Event); !ok {
		return fmt.Errorf("%w %q", ErrUnknownEvent, h.Event)
	}
	if _, ok := sc.CellType(h.Cell); !ok {
		return fmt.Errorf("%w %q", ErrUnknownCell, h.Cell)
	}
	return nil
}

// CellType resolves a cell name to its id
func (sc *Scenario) CellType(name string) (core.CellType, bool) {
	for i, c := range sc.Cells {
		if c == name {
			return core.CellType(i), true
		}
	}
	return core.CellNone, false
}

// Kind resolves a body kind name to its id
func (sc *Scenario) Kind(name string) (core.Kind, bool) {
	for i, k := range sc.Kinds {
		if k == name {
			return core.Kind(i + 1), true
		}
	}
	return 0, false
}

// KindName returns the name of kind, empty if unknown
func (sc *Scenario) KindName(kind core.Kind) string {
	if i := int(kind) - 1; i >= 0 && i < len(sc.Kinds) {
		return sc.Kinds[i]
	}
	return ""
}

func (sc *Scenario) extents() (cols, rows int) {
	for _, line := range sc.Grid {
		cols = max(cols, utf8.RuneCountInString(line))
	}
	return cols, len(sc.Grid)
}

// TileMap builds the cell grid; blanks and short rows stay CellNone
func (sc *Scenario) TileMap() *grid.TileMap {
	cols, rows := sc.extents()
	m := grid.NewTileMap(cols, rows, sc.ScaleShift)
	for row, line := range sc.Grid {
		for col, ch := range []rune(line) {
			if name, ok := sc.Legend[string(ch)]; ok {
				cell, _ := sc.CellType(name)
				m.SetCell(col, row, cell)
			}
		}
	}
	return m
}

// Glyphs maps each cell type to its legend character for rendering
func (sc *Scenario) Glyphs() map[core.CellType]rune {
	out := make(map[core.CellType]rune, len(sc.Legend))
	for ch, name := range sc.Legend {
		if cell, ok := sc.CellType(name); ok {
			r, _ := utf8.DecodeRuneInString(ch)
			// Several characters may share a cell type; keep the lowest for stable output
			if prev, ok := out[cell]; !ok || r < prev {
				out[cell] = r
			}
		}
	}
	return out
}
