package render

import (
	"fmt"

	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/events"
)

// EventLog keeps the most recent formatted events, oldest first
type EventLog struct {
	lines []string
	limit int
}

// NewEventLog creates a log holding at most limit lines
func NewEventLog(limit int) *EventLog {
	return &EventLog{limit: max(1, limit)}
}

// Add appends line, evicting the oldest when full
func (l *EventLog) Add(line string) {
	if len(l.lines) == l.limit {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:l.limit-1]
	}
	l.lines = append(l.lines, line)
}

// Lines returns the retained lines, oldest first
func (l *EventLog) Lines() []string {
	return l.lines
}

// FormatEvent renders ev as a single log line
// kindName labels bodies by category; nil or an empty name falls back to the bare entity id
func FormatEvent(ev events.GameEvent, kindName func(core.Kind) string) string {
	switch p := ev.Payload.(type) {
	case *events.PairPayload:
		return fmt.Sprintf("%5d %-16s %s/%s", ev.Frame, ev.Type,
			bodyLabel(p.Entity, p.Kind, kindName), bodyLabel(p.Other, p.OtherKind, kindName))
	case *events.TilePayload:
		return fmt.Sprintf("%5d %-16s %s cell %d", ev.Frame, ev.Type, bodyLabel(p.Entity, p.Kind, kindName), p.Cell)
	case *events.ContextPayload:
		return fmt.Sprintf("%5d %-16s depth %d", ev.Frame, ev.Type, p.Depth)
	}
	return fmt.Sprintf("%5d %s", ev.Frame, ev.Type)
}

func bodyLabel(e core.Entity, kind core.Kind, kindName func(core.Kind) string) string {
	if kindName != nil {
		if name := kindName(kind); name != "" {
			return fmt.Sprintf("%s#%d", name, e)
		}
	}
	return fmt.Sprintf("e%d", e)
}
