package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/overlap/audio"
	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/events"
	"github.com/lixenwraith/overlap/overlap"
	"github.com/lixenwraith/overlap/render"
	"github.com/lixenwraith/overlap/scenario"
	"github.com/lixenwraith/overlap/status"
)

// app owns the frame loop: it steps the session, drains the event feed and redraws
type app struct {
	screen   tcell.Screen
	scenario *scenario.Scenario
	session  *scenario.Session
	renderer *render.TerminalRenderer
	log      *render.EventLog
	sounds   *audio.SoundManager
	queue    *events.EventQueue
	router   *events.Router[*app]
	reg      *status.Registry
	logger   *slog.Logger

	fired  int64
	paused bool
}

func newApp(screen tcell.Screen, sc *scenario.Scenario, reg *status.Registry, sounds *audio.SoundManager, logger *slog.Logger) *app {
	a := &app{
		screen:   screen,
		scenario: sc,
		renderer: render.NewTerminalRenderer(screen, sc.Glyphs()),
		log:      render.NewEventLog(constants.EventLogLines),
		sounds:   sounds,
		queue:    events.NewEventQueue(),
		reg:      reg,
		logger:   logger,
	}
	a.renderer.Highlight = a.highlighted

	a.router = events.NewRouter[*app](a.queue)
	a.router.Register(events.HandlerFunc[*app]{
		Types: allEventTypes(),
		Fn: func(a *app, ev events.GameEvent) {
			a.fired++
			a.log.Add(render.FormatEvent(ev, a.scenario.KindName))
		},
	})
	a.router.Register(events.HandlerFunc[*app]{
		Types: sounds.EventTypes(),
		Fn:    func(a *app, ev events.GameEvent) { a.sounds.PlayEvent(ev.Type) },
	})
	return a
}

func allEventTypes() []events.EventType {
	var out []events.EventType
	for et := events.EventPairStart; et <= events.EventContextPop; et++ {
		out = append(out, et)
	}
	return out
}

// reload rebuilds the world from the scenario, dropping all tracker state
func (a *app) reload() error {
	s, err := a.scenario.Build(a.logger,
		overlap.WithEventQueue(a.queue),
		overlap.WithStatus(a.reg),
	)
	if err != nil {
		return err
	}
	a.session = s
	a.queue.Consume()
	a.log.Add(fmt.Sprintf("loaded %s", a.scenario.Name))
	return nil
}

// highlighted marks bodies that currently overlap another body or any tracked cell type
func (a *app) highlighted(e core.Entity) bool {
	l := a.session.Stack.Current().Ledger(e)
	return l != nil && (len(l.Overlapping()) > 0 || l.TileCount() > 0)
}

func (a *app) step() {
	a.session.World.Step()
	a.router.DispatchAll(a)
}

func (a *app) draw() {
	w := a.session.World
	ctx := a.session.Stack.Current()
	state := "running"
	if a.paused {
		state = "paused"
	}
	muted := ""
	if a.sounds.Muted() {
		muted = " muted"
	}
	line := fmt.Sprintf(" %s | frame %d | depth %d | tracked %d | subs %d | fired %d | %s%s | space pause  s step  p/o push/pop  r reload  m mute  q quit",
		a.scenario.Name, w.Frame(), a.session.Stack.Depth(), len(ctx.Tracked()), w.Scene().Subscriptions(), a.fired, state, muted)
	a.renderer.RenderFrame(w.Scene(), a.log, line)
}

// handleInput returns false when the demo should exit
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			a.nudge(0, -1)
		case tcell.KeyDown:
			a.nudge(0, 1)
		case tcell.KeyLeft:
			a.nudge(-1, 0)
		case tcell.KeyRight:
			a.nudge(1, 0)
		case tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case ' ':
		a.paused = !a.paused
	case 's':
		if a.paused {
			a.step()
		}
	case 'p':
		a.session.World.PushScene(nil)
		a.router.DispatchAll(a)
	case 'o':
		if a.session.World.SceneDepth() > 1 {
			a.session.World.PopScene()
			a.router.DispatchAll(a)
		}
	case 'r':
		if err := a.reload(); err != nil {
			a.log.Add(err.Error())
		}
	case 'm':
		a.sounds.SetMuted(!a.sounds.Muted())
	}
	return true
}

// nudge moves the first live body a quarter cell
func (a *app) nudge(dx, dy int) {
	step := 1 << constants.DefaultScaleShift
	if g := a.session.World.Grid(); g != nil {
		step = g.Scale()
	}
	step = max(1, step/4)
	for _, e := range a.session.Bodies {
		if _, ok := a.session.World.Body(e); ok {
			a.session.World.Move(e, dx*step, dy*step)
			return
		}
	}
}

func (a *app) run() {
	ticker := time.NewTicker(constants.GameUpdateInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	a.draw()
	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}
			a.draw()

		case <-ticker.C:
			if !a.paused {
				a.step()
			}
			a.draw()
		}
	}
}
