package overlap

import (
	"log/slog"
	"time"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/events"
	"github.com/lixenwraith/overlap/grid"
)

type pairHookKey struct {
	kind, otherKind core.Kind
}

type tileHookKey struct {
	kind core.Kind
	cell core.CellType
}

// Context is one isolated set of handlers and tracked bodies
// Contexts are created by a Stack; only the top Context of its Stack updates or reacts to hooks
type Context struct {
	stack    *Stack
	host     Host
	cfg      *config
	registry *Registry
	depth    int

	// Side table replacing per-entity attached storage
	ledgers map[core.Entity]*Ledger
	tracked []core.Entity // Scan order

	pairHooks map[pairHookKey]struct{}
	tileHooks map[tileHookKey]struct{}

	// Host subscriptions released on discard
	cancels []func()

	cellBuf   []core.CellType
	discarded bool
}

func newContext(s *Stack, depth int) *Context {
	c := &Context{
		stack:     s,
		host:      s.host,
		cfg:       s.cfg,
		registry:  NewRegistry(),
		depth:     depth,
		ledgers:   make(map[core.Entity]*Ledger),
		pairHooks: make(map[pairHookKey]struct{}),
		tileHooks: make(map[tileHookKey]struct{}),
	}
	// Registered with the scheduler of the scene current at creation
	c.cancels = append(c.cancels, c.host.OnFrame(c.cfg.priority, c.Update))
	return c
}

// OnPairEvent registers handler for event between bodies of kind and otherKind
// Re-registering the same key replaces the callback. The first registration
// for a kind pair subscribes to the host's overlap hook.
func (c *Context) OnPairEvent(kind, otherKind core.Kind, event PairEvent, handler PairHandler) {
	if c.discarded {
		return
	}
	if !c.registry.RegisterPair(event, kind, otherKind, handler) {
		return
	}
	key := pairHookKey{kind: kind, otherKind: otherKind}
	if _, ok := c.pairHooks[key]; ok {
		return
	}
	c.pairHooks[key] = struct{}{}
	c.cancels = append(c.cancels, c.host.OnOverlap(kind, otherKind, func(a, b core.Entity) {
		c.pairOverlapBegan(a, b, kind, otherKind)
	}))
}

// OnTileEvent registers handler for event between bodies of kind and cells of type cell
// Re-registering the same key replaces the callback. The first registration
// for a (kind, cell) subscribes to the host's cell overlap hook.
func (c *Context) OnTileEvent(kind core.Kind, cell core.CellType, event TileEvent, handler TileHandler) {
	if c.discarded {
		return
	}
	if !c.registry.RegisterTile(event, kind, cell, handler) {
		return
	}
	key := tileHookKey{kind: kind, cell: cell}
	if _, ok := c.tileHooks[key]; ok {
		return
	}
	c.tileHooks[key] = struct{}{}
	c.cancels = append(c.cancels, c.host.OnOverlapCell(kind, cell, func(e core.Entity, col, row int) {
		c.cellOverlapped(e, col, row)
	}))
}

// Update runs one reconciliation pass: polls recorded pairs for separation,
// re-classifies tile state, then prunes destroyed bodies
// A handler that pushes or pops a context ends the pass early
func (c *Context) Update() {
	if !c.Active() {
		return
	}
	start := time.Now()

	// Index loop: handlers may start tracking new bodies mid-pass
	for i := 0; i < len(c.tracked); i++ {
		e := c.tracked[i]
		if c.host.Destroyed(e) {
			continue
		}
		l := c.ledgers[e]

		c.scanPairs(e, l)
		if !c.Active() {
			return
		}
		if c.host.Destroyed(e) {
			continue
		}

		c.scanTiles(e, l)
		if !c.Active() {
			return
		}
	}

	c.prune()
	c.cfg.metrics.observePass(time.Since(start))
}

// Active reports whether this context is the top of its stack
func (c *Context) Active() bool {
	return !c.discarded && c.stack.top() == c
}

// Depth returns the 1-based position of this context in its stack
func (c *Context) Depth() int {
	return c.depth
}

// Registry returns the handler registry of this context
func (c *Context) Registry() *Registry {
	return c.registry
}

// Tracked returns a copy of the tracked bodies in scan order
func (c *Context) Tracked() []core.Entity {
	out := make([]core.Entity, len(c.tracked))
	copy(out, c.tracked)
	return out
}

// Ledger returns the ledger of e, nil if e is not tracked
func (c *Context) Ledger(e core.Entity) *Ledger {
	return c.ledgers[e]
}

// scanPairs fires PairStop for every recorded pair that separated
func (c *Context) scanPairs(e core.Entity, l *Ledger) {
	if len(l.overlapping) == 0 {
		return
	}
	kind := c.host.Kind(e)
	for _, other := range l.Overlapping() {
		// Destroyed partners are dropped without an event
		if c.host.Destroyed(other) {
			l.removeOverlap(other)
			continue
		}
		if c.host.Overlaps(e, other) {
			continue
		}
		l.removeOverlap(other)
		c.firePair(PairStop, e, other, kind, c.host.Kind(other))
		if !c.Active() || c.host.Destroyed(e) {
			return
		}
	}
}

// scanTiles re-classifies e once per distinct cell type with a handler for its kind
func (c *Context) scanTiles(e core.Entity, l *Ledger) {
	kind := c.host.Kind(e)
	c.cellBuf = c.registry.appendTileCells(c.cellBuf[:0], kind)
	if len(c.cellBuf) == 0 {
		return
	}
	g := c.host.Grid()
	for _, cell := range c.cellBuf {
		c.updateTile(e, l, kind, cell, g)
		if !c.Active() || c.host.Destroyed(e) {
			return
		}
	}
}

// updateTile recomputes the flags of e against cell and fires the implied transitions
func (c *Context) updateTile(e core.Entity, l *Ledger, kind core.Kind, cell core.CellType, g grid.Lookup) {
	var next TileFlag
	if g != nil {
		next = Classify(c.host.Bounds(e), g.Scale(), cell, g)
	}

	ts := l.tileEntry(cell, next != 0)
	if ts == nil || ts.Flags == next {
		return
	}
	prev := ts.Flags
	ts.Flags = next

	for _, tr := range Diff(prev, next) {
		c.fireTile(tr.Event, e, kind, cell)
		if !c.Active() || c.host.Destroyed(e) {
			break
		}
	}
	if !c.discarded {
		l.dropExhausted(cell)
	}
}

// pairOverlapBegan is the reactive start detector, called from the physics hook
func (c *Context) pairOverlapBegan(a, b core.Entity, kind, otherKind core.Kind) {
	if !c.Active() || a == b || c.host.Destroyed(a) || c.host.Destroyed(b) {
		return
	}
	l := c.track(a)
	if !l.addOverlap(b) {
		return
	}
	c.firePair(PairStart, a, b, kind, otherKind)
}

// cellOverlapped updates tile state as soon as physics reports a cell overlap
func (c *Context) cellOverlapped(e core.Entity, col, row int) {
	if !c.Active() || c.host.Destroyed(e) {
		return
	}
	g := c.host.Grid()
	if g == nil {
		return
	}
	cell := g.CellTypeAt(col, row)
	if cell == core.CellNone {
		return
	}
	c.updateTile(e, c.track(e), c.host.Kind(e), cell, g)
}

// track returns the ledger of e, attaching a fresh one on first participation
func (c *Context) track(e core.Entity) *Ledger {
	if l, ok := c.ledgers[e]; ok {
		return l
	}
	l := newLedger(e)
	c.ledgers[e] = l
	c.tracked = append(c.tracked, e)
	c.cfg.metrics.setTracked(len(c.tracked))
	c.cfg.logger.Debug("tracking body",
		slog.Uint64("entity", uint64(e)),
		slog.Int("depth", c.depth),
	)
	return l
}

// prune removes destroyed bodies; runs after the scan so the tracked slice is never mutated mid-iteration
func (c *Context) prune() {
	kept := c.tracked[:0]
	removed := 0
	for _, e := range c.tracked {
		if c.host.Destroyed(e) {
			delete(c.ledgers, e)
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.tracked = kept
	if removed == 0 {
		return
	}
	c.cfg.metrics.addPruned(removed)
	c.cfg.metrics.setTracked(len(c.tracked))
	c.cfg.logger.Debug("pruned destroyed bodies",
		slog.Int("removed", removed),
		slog.Int("tracked", len(c.tracked)),
		slog.Int("depth", c.depth),
	)
}

// discard releases all tracking state and host subscriptions; the context never becomes active again
func (c *Context) discard() {
	c.discarded = true
	c.ledgers = make(map[core.Entity]*Ledger)
	c.tracked = nil
	for _, cancel := range c.cancels {
		if cancel != nil {
			cancel()
		}
	}
	c.cancels = nil
}

func (c *Context) firePair(event PairEvent, e, other core.Entity, kind, otherKind core.Kind) {
	c.publish(event.feedType(), &events.PairPayload{
		Entity:    e,
		Other:     other,
		Kind:      kind,
		OtherKind: otherKind,
	})
	if h := c.registry.ResolvePair(event, kind, otherKind); h != nil {
		h(e, other)
	}
}

func (c *Context) fireTile(event TileEvent, e core.Entity, kind core.Kind, cell core.CellType) {
	c.publish(event.feedType(), &events.TilePayload{
		Entity: e,
		Kind:   kind,
		Cell:   cell,
	})
	if h := c.registry.ResolveTile(event, kind, cell); h != nil {
		h(e)
	}
}

func (c *Context) publish(et events.EventType, payload any) {
	c.cfg.metrics.recordFired(et)
	if c.cfg.queue == nil {
		return
	}
	c.cfg.queue.Push(events.GameEvent{
		Type:      et,
		Payload:   payload,
		Frame:     c.host.Frame(),
		Timestamp: time.Now(),
	})
}
