package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/events"
	"github.com/lixenwraith/overlap/overlap"
)

func TestLoadStrip(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "strip.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "strip", sc.Name)
	assert.Equal(t, 4, sc.ScaleShift, "default scale shift")

	water, ok := sc.CellType("water")
	require.True(t, ok)
	assert.Equal(t, core.CellType(1), water)
	hero, ok := sc.Kind("hero")
	require.True(t, ok)
	assert.Equal(t, core.Kind(1), hero)
	assert.Equal(t, "coin", sc.KindName(2))
	assert.Empty(t, sc.KindName(9))

	m := sc.TileMap()
	cols, rows := m.Extents()
	assert.Equal(t, [2]int{4, 1}, [2]int{cols, rows})
	assert.Equal(t, water, m.CellTypeAt(0, 0))
	assert.Equal(t, core.CellType(0), m.CellTypeAt(3, 0))

	assert.Equal(t, map[core.CellType]rune{0: '.', 1: '~'}, sc.Glyphs())
}

func TestLoadBundledScenario(t *testing.T) {
	sc, err := Load(filepath.Join("..", "scenarios", "pond.yaml"))
	require.NoError(t, err)
	assert.Len(t, sc.Handlers, 8)
	assert.Equal(t, ActionDestroyOther, sc.Handlers[0].Action)
	assert.Equal(t, ActionNone, sc.Handlers[1].Action, "missing action defaults to none")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("name: x\ngrid: [\".\"]\nbogus: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode scenario")
}

func TestValidate(t *testing.T) {
	base := `
cells: [ground, water]
kinds: [hero]
legend: {".": ground, "~": water}
`
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"empty grid", base, ErrEmptyGrid},
		{"blank rows", base + "grid: [\"\"]\n", ErrEmptyGrid},
		{"grid char without legend", base + "grid: [\".x\"]\n", ErrUnknownCell},
		{"legend to unknown cell", "cells: [ground]\nlegend: {\"~\": lava}\ngrid: [\"~\"]\n", ErrUnknownCell},
		{"body of unknown kind", base + "grid: [\".\"]\nbodies: [{kind: ghost, w: 1, h: 1}]\n", ErrUnknownKind},
		{"zero sized body", base + "grid: [\".\"]\nbodies: [{kind: hero, w: 0, h: 4}]\n", ErrBadBody},
		{"unknown tile event", base + "grid: [\".\"]\nhandlers: [{event: Splash, kind: hero, cell: water}]\n", ErrUnknownEvent},
		{"unknown pair event", base + "grid: [\".\"]\nhandlers: [{event: TileEnter, kind: hero, other: hero}]\n", ErrUnknownEvent},
		{"handler on unknown cell", base + "grid: [\".\"]\nhandlers: [{event: TileEnter, kind: hero, cell: lava}]\n", ErrUnknownCell},
		{"unknown action", base + "grid: [\".\"]\nhandlers: [{event: PairStart, kind: hero, other: hero, action: explode}]\n", ErrUnknownAction},
		{"scale shift", base + "scale_shift: 40\ngrid: [\".\"]\n", ErrBadScaleShift},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(c.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestBodyErrorWrapsBoth(t *testing.T) {
	doc := "cells: [a]\nkinds: [k]\nlegend: {\".\": a}\ngrid: [\".\"]\nbodies: [{kind: nope, w: 1, h: 1}]\n"
	_, err := Parse(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrBadBody)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSessionRunsHandlers(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "strip.yaml"))
	require.NoError(t, err)

	q := events.NewEventQueue()
	s, err := sc.Build(nil, overlap.WithEventQueue(q))
	require.NoError(t, err)
	require.Len(t, s.Bodies, 2)

	hero := s.Bodies[0]
	b, ok := s.World.Body(hero)
	require.True(t, ok)
	assert.Equal(t, 'H', b.Glyph)
	coin, ok := s.World.Body(s.Bodies[1])
	require.True(t, ok)
	assert.Equal(t, rune(defaultBodyGlyph), coin.Glyph)

	s.World.Step() // ground
	s.World.Step() // water, enter reverses velocity
	assert.Equal(t, 4, b.Bounds.Left)
	assert.Equal(t, 16, b.VX)

	var names []string
	for _, ev := range q.Consume() {
		names = append(names, ev.Type.String())
	}
	assert.Equal(t, []string{"TileStartOverlap", "TileEnter", "TileEntersArea"}, names)

	s.World.Step()
	assert.Equal(t, 20, b.Bounds.Left)
	assert.False(t, s.Stack.OverlapsCellType(hero, 1))
}

func TestSessionPairDestroyOther(t *testing.T) {
	doc := `
cells: [ground]
kinds: [hero, coin]
legend: {".": ground}
grid: ["...."]
bodies:
  - {kind: hero, x: 0, y: 0, w: 8, h: 8}
  - {kind: coin, x: 4, y: 4, w: 8, h: 8}
handlers:
  - {event: PairStart, kind: hero, other: coin, action: destroy_other}
`
	sc, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	s, err := sc.Build(nil)
	require.NoError(t, err)

	s.World.Step()
	_, alive := s.World.Body(s.Bodies[1])
	assert.False(t, alive)
	assert.Equal(t, 1, s.World.Scene().Count())
}

func TestSessionPushAndPopScene(t *testing.T) {
	doc := `
cells: [ground, door]
kinds: [hero]
legend: {".": ground, "D": door}
grid: ["D..."]
bodies:
  - {kind: hero, x: 2, y: 2, w: 8, h: 8}
handlers:
  - {event: TileEnter, kind: hero, cell: door, action: push_scene}
`
	sc, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	s, err := sc.Build(nil)
	require.NoError(t, err)

	s.World.Step()
	assert.Equal(t, 2, s.World.SceneDepth())
	assert.Equal(t, 2, s.Stack.Depth())

	s.apply(ActionPopScene, 0)
	assert.Equal(t, 1, s.World.SceneDepth())
	assert.Equal(t, 1, s.Stack.Depth())

	s.apply(ActionPopScene, 0)
	assert.Equal(t, 1, s.World.SceneDepth(), "root scene is never popped by actions")
}
