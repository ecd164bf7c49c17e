package overlap

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/overlap/constants"
	"github.com/lixenwraith/overlap/events"
	"github.com/lixenwraith/overlap/status"
)

// Option configures a Stack and every Context it creates
type Option func(*config)

type config struct {
	logger   *slog.Logger
	queue    *events.EventQueue
	priority int
	metrics  *metrics
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:   slog.New(slog.DiscardHandler),
		priority: constants.PriorityOverlap,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithLogger routes tracker diagnostics (context push/pop, tracking, pruning) to logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger.With(slog.String("component", "overlap"))
		}
	}
}

// WithEventQueue publishes every fired transition to q for observers
func WithEventQueue(q *events.EventQueue) Option {
	return func(c *config) { c.queue = q }
}

// WithStatus records counters and gauges in reg
func WithStatus(reg *status.Registry) Option {
	return func(c *config) {
		if reg != nil {
			c.metrics = newMetrics(reg)
		}
	}
}

// WithPriority overrides the frame priority of the update pass
// It must stay above the physics priority so geometry is settled
func WithPriority(priority int) Option {
	return func(c *config) { c.priority = priority }
}

// metrics caches status pointers; a nil *metrics records nothing
type metrics struct {
	fired     *atomic.Int64
	byType    map[events.EventType]*atomic.Int64
	tracked   *atomic.Int64
	depth     *atomic.Int64
	pruned    *atomic.Int64
	passMs    *status.AtomicFloat
	passMax   *status.AtomicFloat
	lastEvent *status.AtomicString
}

func newMetrics(reg *status.Registry) *metrics {
	m := &metrics{
		fired:     reg.Ints.Get("overlap.fired.total"),
		byType:    make(map[events.EventType]*atomic.Int64),
		tracked:   reg.Ints.Get("overlap.tracked"),
		depth:     reg.Ints.Get("overlap.depth"),
		pruned:    reg.Ints.Get("overlap.pruned.total"),
		passMs:    reg.Floats.Get("overlap.pass_ms"),
		passMax:   reg.Floats.Get("overlap.pass_ms.max"),
		lastEvent: reg.Strings.Get("overlap.last_event"),
	}
	for et := events.EventPairStart; et <= events.EventTileExitsArea; et++ {
		m.byType[et] = reg.Ints.Get("overlap.fired." + et.String() + ".total")
	}
	return m
}

func (m *metrics) recordFired(et events.EventType) {
	if m == nil {
		return
	}
	m.fired.Add(1)
	if c, ok := m.byType[et]; ok {
		c.Add(1)
	}
	m.lastEvent.Store(et.String())
}

func (m *metrics) setTracked(n int) {
	if m != nil {
		m.tracked.Store(int64(n))
	}
}

func (m *metrics) setDepth(n int) {
	if m != nil {
		m.depth.Store(int64(n))
	}
}

func (m *metrics) addPruned(n int) {
	if m != nil && n > 0 {
		m.pruned.Add(int64(n))
	}
}

func (m *metrics) observePass(d time.Duration) {
	if m == nil {
		return
	}
	ms := float64(d.Microseconds()) / 1000
	m.passMs.Set(ms)
	m.passMax.Max(ms)
}
