package swarm

import (
	"strings"

	"go.uber.org/zap"
)

// EventKind identifies a traversal event.
type EventKind string

const (
	EventEnter       EventKind = "enter"
	EventCycle       EventKind = "cycle"
	EventUnavailable EventKind = "unavailable"
	EventFailure     EventKind = "failure"
	EventEmptyPool   EventKind = "empty_pool"
)

// Level is the severity of an Event.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event is a structured traversal event. Depth doubles as an indentation hint.
type Event struct {
	Kind    EventKind
	Level   Level
	RunID   string
	Worker  string
	Task    string
	Depth   int
	Message string
	Err     error
}

// Observer receives traversal events. Observe must not block for long; the
// traversal waits for it.
type Observer interface {
	Observe(Event)
}

// NopObserver discards events.
type NopObserver struct{}

// Observe implements Observer.
func (NopObserver) Observe(Event) {}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

// Observe implements Observer.
func (m MultiObserver) Observe(e Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(e)
		}
	}
}

// ZapObserver writes events to a zap logger, indenting messages by depth.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates a ZapObserver.
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{logger: logger.With(zap.String("component", "swarm_dfs"))}
}

// Observe implements Observer.
func (o *ZapObserver) Observe(e Event) {
	msg := strings.Repeat("  ", max(e.Depth, 0)) + e.Message
	fields := []zap.Field{
		zap.String("event", string(e.Kind)),
		zap.Int("depth", e.Depth),
	}
	if e.RunID != "" {
		fields = append(fields, zap.String("run_id", e.RunID))
	}
	if e.Worker != "" {
		fields = append(fields, zap.String("worker", e.Worker))
	}
	if e.Task != "" {
		fields = append(fields, zap.String("task", e.Task))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}

	switch e.Level {
	case LevelError:
		o.logger.Error(msg, fields...)
	case LevelWarn:
		o.logger.Warn(msg, fields...)
	default:
		o.logger.Info(msg, fields...)
	}
}

// RunObserver is implemented by observers that also want each finished run.
// err is the error Run returned, nil unless the context was cancelled.
type RunObserver interface {
	RunFinished(t *Trace, err error)
}

// RunFinished forwards to members implementing RunObserver.
func (m MultiObserver) RunFinished(t *Trace, err error) {
	for _, o := range m {
		if ro, ok := o.(RunObserver); ok {
			ro.RunFinished(t, err)
		}
	}
}
