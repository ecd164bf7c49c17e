package overlap_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/engine"
	"github.com/lixenwraith/overlap/events"
	"github.com/lixenwraith/overlap/grid"
	"github.com/lixenwraith/overlap/overlap"
	"github.com/lixenwraith/overlap/status"
)

const (
	kindPlayer core.Kind = 1
	kindCoin   core.Kind = 2
	kindHero   core.Kind = 3

	cellGround core.CellType = 0
	cellWater  core.CellType = 1
)

// pond is a 4x1 strip of 16-unit cells: water in column 0, ground elsewhere
func pond() *grid.TileMap {
	m := grid.NewTileMap(4, 1, 4)
	m.Fill(cellGround)
	m.SetCell(0, 0, cellWater)
	return m
}

type recorder struct {
	got []string
}

func (r *recorder) pair(name string) overlap.PairHandler {
	return func(_, _ core.Entity) { r.got = append(r.got, name) }
}

func (r *recorder) tile(name string) overlap.TileHandler {
	return func(core.Entity) { r.got = append(r.got, name) }
}

func (r *recorder) take() []string {
	out := r.got
	r.got = nil
	return out
}

func TestPairStartAndStopFireOnce(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("start"))
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStop, rec.pair("stop"))

	player := w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	coin := w.CreateBody(kindCoin, core.RectAt(4, 4, 8, 8))

	w.Step()
	assert.Equal(t, []string{"start"}, rec.take())
	w.Step()
	w.Step()
	assert.Empty(t, rec.take(), "persistent overlap must not repeat start")

	l := s.Current().Ledger(player)
	require.NotNil(t, l)
	assert.True(t, l.IsOverlapping(coin))

	w.SetPosition(coin, 100, 100)
	w.Step()
	assert.Equal(t, []string{"stop"}, rec.take())
	w.Step()
	assert.Empty(t, rec.take())
	assert.Empty(t, l.Overlapping())

	w.SetPosition(coin, 2, 2)
	w.Step()
	assert.Equal(t, []string{"start"}, rec.take(), "re-entry starts a new pair")
}

func TestPairTouchingEdgesDoNotStart(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("start"))

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(8, 0, 8, 8))
	w.Step()
	assert.Empty(t, rec.take())
	assert.Empty(t, s.Current().Tracked())
}

func TestPairReregistrationReplacesCallback(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("first"))
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("second"))

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))
	w.Step()

	assert.Equal(t, []string{"second"}, rec.take(), "one handler per key, one hook subscription")
	assert.Equal(t, 1, s.Current().Registry().PairCount())
}

func TestTileTransitions(t *testing.T) {
	w := engine.NewWorld(pond())
	s := overlap.NewStack(w)
	rec := &recorder{}
	for e := overlap.TileStartOverlap; e <= overlap.TileExitsArea; e++ {
		s.OnTileEvent(kindHero, cellWater, e, rec.tile(e.String()))
	}

	hero := w.CreateBody(kindHero, core.RectAt(36, 4, 8, 8))
	w.Step()
	assert.Empty(t, rec.take())

	// Inside the single water cell
	w.SetPosition(hero, 4, 4)
	w.Step()
	assert.Equal(t, []string{"TileStartOverlap", "TileEnter", "TileEntersArea"}, rec.take())
	w.Step()
	assert.Empty(t, rec.take(), "stable state fires nothing")

	l := s.Current().Ledger(hero)
	require.NotNil(t, l)
	assert.Equal(t, overlap.FlagOverlapping|overlap.FlagFullyWithin|overlap.FlagWithinArea, l.TileFlags(cellWater))

	// Straddling water and ground
	w.SetPosition(hero, 12, 4)
	w.Step()
	assert.Equal(t, []string{"TileExit", "TileExitsArea"}, rec.take())
	assert.Equal(t, overlap.FlagOverlapping, l.TileFlags(cellWater))

	// Ground only
	w.SetPosition(hero, 20, 4)
	w.Step()
	assert.Equal(t, []string{"TileStopOverlap"}, rec.take())
	assert.Equal(t, 0, l.TileCount(), "zero state is removed")
	w.Step()
	assert.Empty(t, rec.take())
}

func TestTileWithoutGridFiresNothing(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnTileEvent(kindHero, cellWater, overlap.TileStartOverlap, rec.tile("start"))
	w.CreateBody(kindHero, core.RectAt(0, 0, 8, 8))
	w.Step()
	assert.Empty(t, rec.take())
}

func TestDestroyedBodiesArePruned(t *testing.T) {
	w := engine.NewWorld(nil)
	reg := status.NewRegistry()
	s := overlap.NewStack(w, overlap.WithStatus(reg))
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("start"))
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStop, rec.pair("stop"))

	player := w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))
	w.Step()
	require.Equal(t, []core.Entity{player}, s.Current().Tracked())

	w.Destroy(player)
	w.Step()
	assert.Empty(t, s.Current().Tracked())
	assert.Nil(t, s.Current().Ledger(player))
	assert.Equal(t, []string{"start"}, rec.take(), "destroyed bodies never fire stop")
	assert.Equal(t, int64(1), reg.Ints.Get("overlap.pruned.total").Load())
}

func TestDestroyedPartnerDroppedSilently(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("start"))
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStop, rec.pair("stop"))

	player := w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	coin := w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))
	w.Step()
	w.Destroy(coin)
	w.Step()

	assert.Equal(t, []string{"start"}, rec.take())
	assert.Empty(t, s.Current().Ledger(player).Overlapping())
}

func TestHandlerDestroyStopsFurtherTransitions(t *testing.T) {
	w := engine.NewWorld(pond())
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnTileEvent(kindHero, cellWater, overlap.TileStartOverlap, func(e core.Entity) {
		rec.got = append(rec.got, "start")
		w.Destroy(e)
	})
	s.OnTileEvent(kindHero, cellWater, overlap.TileEnter, rec.tile("enter"))

	w.CreateBody(kindHero, core.RectAt(4, 4, 8, 8))
	w.Step()
	w.Step()
	assert.Equal(t, []string{"start"}, rec.take())
	assert.Empty(t, s.Current().Tracked())
}

func TestStackInitializesLazily(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	assert.Equal(t, 0, s.Depth())

	root := s.Current()
	assert.Equal(t, 1, s.Depth())
	assert.Same(t, root, s.Current())

	s.Pop()
	assert.Equal(t, 1, s.Depth(), "stack is never empty once initialized")
	assert.NotSame(t, root, s.Current())
	assert.Equal(t, 0, s.Current().Registry().PairCount())
}

func TestNestedSceneIsolation(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("outer"))
	outer := s.Current()

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))

	w.PushScene(nil)
	require.Equal(t, 2, s.Depth())
	inner := s.Current()
	assert.NotSame(t, outer, inner)
	assert.False(t, outer.Active())

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))
	w.Step()
	assert.Empty(t, rec.take(), "outer handlers never see the nested scene")

	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("inner"))
	w.Step()
	assert.Equal(t, []string{"inner"}, rec.take())

	w.PopScene()
	assert.Equal(t, 1, s.Depth())
	assert.Same(t, outer, s.Current(), "outer context restored")
	assert.Equal(t, 1, outer.Registry().PairCount())
	assert.False(t, inner.Active())

	w.Step()
	assert.Equal(t, []string{"outer"}, rec.take())
}

func TestInactiveContextIgnoresManualPush(t *testing.T) {
	w := engine.NewWorld(nil)
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("outer"))

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))

	// Same scene, new context: the root's hooks still run but are gated
	s.Push()
	w.Step()
	assert.Empty(t, rec.take())

	s.Pop()
	w.Step()
	assert.Equal(t, []string{"outer"}, rec.take())
}

func TestManualPushPopReleasesSubscriptions(t *testing.T) {
	w := engine.NewWorld(pond())
	s := overlap.NewStack(w)
	rec := &recorder{}
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("outer"))
	s.OnTileEvent(kindHero, cellWater, overlap.TileEnter, rec.tile("enter"))
	base := w.Scene().Subscriptions()

	for i := 0; i < 10; i++ {
		c := s.Push()
		c.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, rec.pair("inner"))
		c.OnTileEvent(kindHero, cellWater, overlap.TileEnter, rec.tile("inner"))
		require.Equal(t, base+3, w.Scene().Subscriptions(), "frame handler plus two hooks")
		s.Pop()
	}
	assert.Equal(t, base, w.Scene().Subscriptions())

	w.CreateBody(kindPlayer, core.RectAt(20, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(20, 0, 8, 8))
	w.Step()
	assert.Equal(t, []string{"outer"}, rec.take())
}

func TestTransitionsPublishedToQueue(t *testing.T) {
	w := engine.NewWorld(pond())
	q := events.NewEventQueue()
	s := overlap.NewStack(w, overlap.WithEventQueue(q))
	s.OnTileEvent(kindHero, cellWater, overlap.TileEnter, func(core.Entity) {})

	hero := w.CreateBody(kindHero, core.RectAt(4, 4, 8, 8))
	w.Step()

	got := q.Consume()
	require.Len(t, got, 3, "every transition is published, handled or not")
	assert.Equal(t, events.EventTileStartOverlap, got[0].Type)
	assert.Equal(t, events.EventTileEnter, got[1].Type)
	assert.Equal(t, events.EventTileEntersArea, got[2].Type)
	assert.Equal(t, int64(1), got[0].Frame)

	p, ok := got[1].Payload.(*events.TilePayload)
	require.True(t, ok)
	assert.Equal(t, hero, p.Entity)
	assert.Equal(t, cellWater, p.Cell)

	w.PushScene(nil)
	got = q.Consume()
	require.Len(t, got, 1)
	assert.Equal(t, events.EventContextPush, got[0].Type)
	assert.Equal(t, 2, got[0].Payload.(*events.ContextPayload).Depth)
}

func TestStatusExport(t *testing.T) {
	w := engine.NewWorld(nil)
	reg := status.NewRegistry()
	s := overlap.NewStack(w, overlap.WithStatus(reg))
	s.OnPairEvent(kindPlayer, kindCoin, overlap.PairStart, func(_, _ core.Entity) {})

	w.CreateBody(kindPlayer, core.RectAt(0, 0, 8, 8))
	w.CreateBody(kindCoin, core.RectAt(0, 0, 8, 8))
	w.Step()

	assert.Equal(t, int64(1), reg.Ints.Get("overlap.fired.total").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("overlap.fired.PairStart.total").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("overlap.tracked").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("overlap.depth").Load())
	assert.Equal(t, "PairStart", reg.Strings.Get("overlap.last_event").Load())

	c, err := status.NewCollector(reg, "demo", prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Positive(t, testutil.CollectAndCount(c))
}
