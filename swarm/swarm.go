package swarm

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/types"
)

const tracerName = "github.com/BaSui01/swarmdfs/swarm"

// Swarm delegates tasks depth-first across a fixed pool of workers.
//
// Each Run keeps its visited set, assignments and trace in a value private to
// that call. A Swarm still must not serve concurrent Runs unless its workers and
// policy are safe for concurrent use.
type Swarm struct {
	workers  []Worker
	policy   AssignmentPolicy
	observer Observer
	tracer   oteltrace.Tracer
	logger   *zap.Logger
}

// Option configures a Swarm.
type Option func(*Swarm)

// WithPolicy sets the assignment policy. Default is FirstAvailable.
func WithPolicy(p AssignmentPolicy) Option {
	return func(s *Swarm) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithObserver sets the event sink. Default logs through the Swarm's logger.
func WithObserver(o Observer) Option {
	return func(s *Swarm) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Swarm) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer. Default is the global provider's tracer.
func WithTracer(t oteltrace.Tracer) Option {
	return func(s *Swarm) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates a Swarm over workers. The first worker runs the initial task.
func New(workers []Worker, opts ...Option) *Swarm {
	s := &Swarm{
		workers: append([]Worker(nil), workers...),
		policy:  FirstAvailable{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "swarm"))
	if s.observer == nil {
		s.observer = NewZapObserver(s.logger)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// Workers returns the pool in order.
func (s *Swarm) Workers() []Worker {
	return append([]Worker(nil), s.workers...)
}

type visitKey struct {
	worker string
	task   string
}

// frame is a node whose follow-on tasks are still being delegated.
type frame struct {
	worker Worker
	depth  int
	next   []string
}

// runState is everything one Run mutates.
type runState struct {
	visited     map[visitKey]struct{}
	assignments Assignments
	trace       *Trace
	stack       []*frame
}

// Run executes initialTask on the first worker and follows every delegated task
// depth-first. Each attempted (worker, task) pair yields exactly one record; a pair
// met again is skipped without a record.
//
// An empty pool yields an empty trace. Worker failures are recorded, never returned.
// The only error is ctx's, in which case the partial trace is returned with it.
func (s *Swarm) Run(ctx context.Context, initialTask string) (*Trace, error) {
	st := &runState{
		visited:     make(map[visitKey]struct{}),
		assignments: make(Assignments),
		trace: &Trace{
			RunID:       uuid.NewString(),
			InitialTask: initialTask,
			Records:     []Record{},
			StartedAt:   time.Now(),
		},
	}
	runID := st.trace.RunID

	if len(s.workers) == 0 {
		s.emit(Event{
			Kind:    EventEmptyPool,
			Level:   LevelWarn,
			RunID:   runID,
			Task:    initialTask,
			Message: "DFS: No agents in the swarm.",
			Err:     types.NewError(types.ErrEmptyPool, "worker pool is empty"),
		})
		return s.finish(st, nil)
	}

	ctx, span := s.tracer.Start(ctx, "swarm.run", oteltrace.WithAttributes(
		attribute.String("swarm.run_id", runID),
		attribute.String("swarm.initial_task", initialTask),
		attribute.Int("swarm.workers", len(s.workers)),
	))
	defer span.End()
	ctx = types.WithRunID(ctx, runID)

	err := s.traverse(ctx, st, span)

	span.SetAttributes(
		attribute.Int("swarm.records", st.trace.Len()),
		attribute.Int("swarm.failed", len(st.trace.Failed())),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return s.finish(st, err)
}

func (s *Swarm) finish(st *runState, err error) (*Trace, error) {
	st.trace.FinishedAt = time.Now()
	if ro, ok := s.observer.(RunObserver); ok {
		ro.RunFinished(st.trace, err)
	}
	s.logger.Debug("run finished",
		zap.String("run_id", st.trace.RunID),
		zap.Int("records", st.trace.Len()),
		zap.Duration("duration", st.trace.Duration()),
		zap.Error(err),
	)
	return st.trace, err
}

// traverse drives the explicit stack. A frame's next follow-on task is delegated
// only after everything pushed above the frame has been drained, which keeps
// policy decisions and record order identical to a recursive descent.
func (s *Swarm) traverse(ctx context.Context, st *runState, span oteltrace.Span) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.enter(ctx, st, span, s.workers[0], st.trace.InitialTask, 0)

	for {
		// Also checked once the stack drains: a worker that gave up on a
		// cancelled ctx leaves an incomplete trace.
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(st.stack) == 0 {
			return nil
		}

		top := st.stack[len(st.stack)-1]
		if len(top.next) == 0 {
			st.stack = st.stack[:len(st.stack)-1]
			continue
		}
		task := top.next[0]
		top.next = top.next[1:]

		next, ok := s.policy.Select(top.worker, s.workers, st.assignments, task)
		if !ok || next == nil {
			s.emit(Event{
				Kind:    EventUnavailable,
				Level:   LevelWarn,
				RunID:   st.trace.RunID,
				Task:    task,
				Depth:   top.depth,
				Message: fmt.Sprintf("DFS: No available agent for task: %s", task),
				Err:     types.NewError(types.ErrNoWorkerAvailable, NoWorkerMessage+" for task "+task),
			})
			span.AddEvent("unassigned", oteltrace.WithAttributes(attribute.String("swarm.task", task)))
			st.trace.append(Record{
				Worker: NoWorker,
				Task:   task,
				Status: StatusUnassigned,
				Error:  NoWorkerMessage,
				Depth:  top.depth + 1,
			})
			continue
		}
		s.enter(ctx, st, span, next, task, top.depth+1)
	}
}

// enter visits one node: cycle guard, execution, record, and scheduling of its
// follow-on tasks.
func (s *Swarm) enter(ctx context.Context, st *runState, span oteltrace.Span, w Worker, task string, depth int) {
	name := w.Name()
	s.emit(Event{
		Kind:    EventEnter,
		Level:   LevelInfo,
		RunID:   st.trace.RunID,
		Worker:  name,
		Task:    task,
		Depth:   depth,
		Message: fmt.Sprintf("DFS: Agent %s processing task: %s", name, task),
	})

	key := visitKey{worker: name, task: task}
	if _, seen := st.visited[key]; seen {
		s.emit(Event{
			Kind:    EventCycle,
			Level:   LevelWarn,
			RunID:   st.trace.RunID,
			Worker:  name,
			Task:    task,
			Depth:   depth,
			Message: fmt.Sprintf("DFS: Cycle detected, skipping task: %s for agent %s", task, name),
		})
		span.AddEvent("cycle", oteltrace.WithAttributes(
			attribute.String("swarm.worker", name),
			attribute.String("swarm.task", task),
		))
		return
	}
	st.visited[key] = struct{}{}

	wctx := types.WithDepth(types.WithWorker(ctx, name), depth)
	out, err := execute(wctx, w, task)
	if err != nil {
		s.emit(Event{
			Kind:    EventFailure,
			Level:   LevelError,
			RunID:   st.trace.RunID,
			Worker:  name,
			Task:    task,
			Depth:   depth,
			Message: fmt.Sprintf("DFS: Agent %s encountered an error: %v", name, err),
			Err:     err,
		})
		span.AddEvent("failure", oteltrace.WithAttributes(
			attribute.String("swarm.worker", name),
			attribute.String("swarm.task", task),
			attribute.String("error", err.Error()),
		))
		st.trace.append(Record{
			Worker: name,
			Task:   task,
			Status: StatusFailed,
			Error:  err.Error(),
			Depth:  depth,
		})
		return
	}

	st.trace.append(Record{
		Worker: name,
		Task:   task,
		Status: StatusCompleted,
		Result: out.Value,
		Depth:  depth,
	})
	if out.HasNext() {
		st.stack = append(st.stack, &frame{
			worker: w,
			depth:  depth,
			next:   append([]string(nil), out.NextTasks...),
		})
	}
}

func (s *Swarm) emit(e Event) {
	s.observer.Observe(e)
}
