package overlap

import (
	"log/slog"
	"time"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/events"
)

// Stack holds one Context per nested scene
// It is initialized lazily: the root Context and the scene push/pop
// subscriptions are created on first use. After that the stack is never empty.
type Stack struct {
	host     Host
	cfg      *config
	contexts []*Context
	started  bool
}

// NewStack creates an uninitialized stack bound to host
func NewStack(host Host, opts ...Option) *Stack {
	return &Stack{
		host: host,
		cfg:  newConfig(opts),
	}
}

// Current returns the active Context, initializing the stack on first call
func (s *Stack) Current() *Context {
	s.init()
	return s.contexts[len(s.contexts)-1]
}

// Push stacks a fresh Context; called when a nested scene begins
func (s *Stack) Push() *Context {
	s.init()
	c := newContext(s, len(s.contexts)+1)
	s.contexts = append(s.contexts, c)
	s.changed(events.EventContextPush, "context pushed")
	return c
}

// Pop discards the active Context; called when a nested scene ends
// Popping the last Context immediately replaces it with a fresh one
func (s *Stack) Pop() {
	s.init()
	n := len(s.contexts)
	s.contexts[n-1].discard()
	s.contexts[n-1] = nil
	s.contexts = s.contexts[:n-1]
	if len(s.contexts) == 0 {
		s.contexts = append(s.contexts, newContext(s, 1))
	}
	s.changed(events.EventContextPop, "context popped")
}

// Depth returns the number of stacked contexts, zero before first use
func (s *Stack) Depth() int {
	return len(s.contexts)
}

// OnPairEvent registers a pair handler in the active Context
func (s *Stack) OnPairEvent(kind, otherKind core.Kind, event PairEvent, handler PairHandler) {
	s.Current().OnPairEvent(kind, otherKind, event, handler)
}

// OnTileEvent registers a tile handler in the active Context
func (s *Stack) OnTileEvent(kind core.Kind, cell core.CellType, event TileEvent, handler TileHandler) {
	s.Current().OnTileEvent(kind, cell, event, handler)
}

// OverlapsCellType runs the point-in-time query against the host's active tile map
func (s *Stack) OverlapsCellType(e core.Entity, cell core.CellType) bool {
	if s == nil || s.host == nil {
		return false
	}
	return OverlapsCellType(s.host, s.host.Grid(), e, cell)
}

func (s *Stack) init() {
	if s.started {
		return
	}
	s.started = true
	s.contexts = append(s.contexts, newContext(s, 1))
	s.host.OnScenePush(func() { s.Push() })
	s.host.OnScenePop(s.Pop)
	s.cfg.metrics.setDepth(1)
	s.cfg.logger.Debug("context stack initialized")
}

// top returns the active Context without initializing
func (s *Stack) top() *Context {
	if len(s.contexts) == 0 {
		return nil
	}
	return s.contexts[len(s.contexts)-1]
}

func (s *Stack) changed(et events.EventType, msg string) {
	depth := len(s.contexts)
	s.cfg.metrics.setDepth(depth)
	s.cfg.metrics.setTracked(len(s.contexts[depth-1].tracked))
	s.cfg.logger.Debug(msg, slog.Int("depth", depth))
	if s.cfg.queue != nil {
		s.cfg.queue.Push(events.GameEvent{
			Type:      et,
			Payload:   &events.ContextPayload{Depth: depth},
			Frame:     s.host.Frame(),
			Timestamp: time.Now(),
		})
	}
}
