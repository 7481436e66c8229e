package swarm

import (
	"context"
	"fmt"

	"github.com/BaSui01/swarmdfs/types"
)

// Worker is a unit of the swarm that can run a task and propose follow-on tasks.
// Name must be unique within a pool.
type Worker interface {
	Name() string
	Run(ctx context.Context, task string) (Outcome, error)
}

// TaskMatcher is implemented by workers that only accept some tasks.
// The Capability policy consults it; FirstAvailable ignores it.
type TaskMatcher interface {
	CanHandle(task string) bool
}

// WorkerFunc adapts a function into a Worker.
type WorkerFunc struct {
	name string
	fn   func(ctx context.Context, task string) (Outcome, error)
}

// NewWorkerFunc creates a Worker named name that delegates to fn.
func NewWorkerFunc(name string, fn func(ctx context.Context, task string) (Outcome, error)) *WorkerFunc {
	return &WorkerFunc{name: name, fn: fn}
}

// Name returns the worker name.
func (w *WorkerFunc) Name() string { return w.name }

// Run calls the wrapped function.
func (w *WorkerFunc) Run(ctx context.Context, task string) (Outcome, error) {
	return w.fn(ctx, task)
}

// execute runs the worker, converting a panic into an error.
func execute(ctx context.Context, w Worker, task string) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = types.NewError(types.ErrWorkerPanic, fmt.Sprintf("worker panicked: %v", r)).
				WithWorker(w.Name())
			out = Outcome{}
		}
	}()
	return w.Run(ctx, task)
}
