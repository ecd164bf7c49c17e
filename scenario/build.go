package scenario

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/engine"
	"github.com/lixenwraith/overlap/overlap"
)

// Handler actions
const (
	ActionNone         = "none"          // Observe only; the event feed still records it
	ActionDestroy      = "destroy"       // Destroy the reporting body
	ActionDestroyOther = "destroy_other" // Destroy the partner body (pair handlers only)
	ActionReverse      = "reverse"       // Negate the reporting body's velocity
	ActionPushScene    = "push_scene"    // Enter an empty nested scene
	ActionPopScene     = "pop_scene"     // Leave the current nested scene
)

func validAction(a string) bool {
	switch a {
	case ActionNone, ActionDestroy, ActionDestroyOther, ActionReverse, ActionPushScene, ActionPopScene:
		return true
	}
	return false
}

// Session is a running scenario: the host world, its tracker and the spawned bodies
type Session struct {
	Scenario *Scenario
	World    *engine.World
	Stack    *overlap.Stack
	Bodies   []core.Entity // Index matches Scenario.Bodies

	logger *slog.Logger
}

// Build creates the world, spawns bodies and registers every handler in the root context
func (sc *Scenario) Build(logger *slog.Logger, opts ...overlap.Option) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := engine.NewWorld(sc.TileMap())
	w.SetLogger(logger)

	s := &Session{
		Scenario: sc,
		World:    w,
		Stack:    overlap.NewStack(w, append([]overlap.Option{overlap.WithLogger(logger)}, opts...)...),
		logger:   logger.With(slog.String("scenario", sc.Name)),
	}
	s.Spawn()
	if err := s.Register(); err != nil {
		return nil, err
	}
	return s, nil
}

// Spawn creates the scenario's bodies in the active scene
func (s *Session) Spawn() {
	for _, b := range s.Scenario.Bodies {
		kind, _ := s.Scenario.Kind(b.Kind)
		e := s.World.CreateBody(kind, core.RectAt(b.X, b.Y, b.W, b.H))
		if body, ok := s.World.Body(e); ok {
			body.VX, body.VY = b.VX, b.VY
			body.Glyph = defaultBodyGlyph
			if r, _ := utf8.DecodeRuneInString(b.Glyph); b.Glyph != "" {
				body.Glyph = r
			}
		}
		s.Bodies = append(s.Bodies, e)
	}
	s.logger.Debug("bodies spawned", slog.Int("count", len(s.Bodies)))
}

// Register installs the scenario's handlers in the active context
func (s *Session) Register() error {
	sc := s.Scenario
	for i, h := range sc.Handlers {
		kind, _ := sc.Kind(h.Kind)
		if h.IsPair() {
			event, ok := overlap.ParsePairEvent(h.Event)
			if !ok {
				return fmt.Errorf("handler %d: %w %q", i, ErrUnknownEvent, h.Event)
			}
			other, _ := sc.Kind(h.Other)
			s.Stack.OnPairEvent(kind, other, event, s.pairAction(h.Action))
			continue
		}
		event, ok := overlap.ParseTileEvent(h.Event)
		if !ok {
			return fmt.Errorf("handler %d: %w %q", i, ErrUnknownEvent, h.Event)
		}
		cell, _ := sc.CellType(h.Cell)
		s.Stack.OnTileEvent(kind, cell, event, s.tileAction(h.Action))
	}
	return nil
}

func (s *Session) pairAction(action string) overlap.PairHandler {
	return func(e, other core.Entity) {
		if action == ActionDestroyOther {
			s.World.Destroy(other)
			return
		}
		s.apply(action, e)
	}
}

func (s *Session) tileAction(action string) overlap.TileHandler {
	return func(e core.Entity) {
		s.apply(action, e)
	}
}

func (s *Session) apply(action string, e core.Entity) {
	switch action {
	case ActionDestroy:
		s.World.Destroy(e)
	case ActionReverse:
		if b, ok := s.World.Body(e); ok {
			b.VX, b.VY = -b.VX, -b.VY
		}
	case ActionPushScene:
		s.World.PushScene(nil)
	case ActionPopScene:
		if s.World.SceneDepth() > 1 {
			s.World.PopScene()
		}
	}
}
