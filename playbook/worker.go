package playbook

import (
	"context"
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/swarm"
)

// ErrNoScript is returned when a worker has neither a script for a task nor a default.
var ErrNoScript = errors.New("no script for task")

// Worker answers tasks from a WorkerSpec. It implements swarm.Worker and
// swarm.TaskMatcher.
type Worker struct {
	spec   WorkerSpec
	logger *zap.Logger
}

// NewWorker creates a scripted worker.
func NewWorker(spec WorkerSpec, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{
		spec:   spec,
		logger: logger.With(zap.String("component", "playbook_worker"), zap.String("worker", spec.Name)),
	}
}

// Name implements swarm.Worker.
func (w *Worker) Name() string { return w.spec.Name }

// Run implements swarm.Worker.
func (w *Worker) Run(ctx context.Context, task string) (swarm.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return swarm.Outcome{}, err
	}
	script, ok := w.spec.Tasks[task]
	if !ok {
		if w.spec.Default == nil {
			return swarm.Outcome{}, fmt.Errorf("%w %q", ErrNoScript, task)
		}
		script = *w.spec.Default
	}
	w.logger.Debug("running scripted task",
		zap.String("task", task),
		zap.Strings("next_tasks", script.NextTasks),
	)
	if script.Error != "" {
		return swarm.Outcome{}, errors.New(script.Error)
	}
	return swarm.Outcome{Value: script.Output, NextTasks: []string(script.NextTasks)}, nil
}

// CanHandle implements swarm.TaskMatcher.
func (w *Worker) CanHandle(task string) bool {
	if len(w.spec.Handles) == 0 {
		return true
	}
	for _, pattern := range w.spec.Handles {
		if ok, _ := path.Match(pattern, task); ok {
			return true
		}
	}
	return false
}

// Pool builds the playbook's workers in declaration order.
func (p *Playbook) Pool(logger *zap.Logger) []swarm.Worker {
	out := make([]swarm.Worker, 0, len(p.Workers))
	for _, spec := range p.Workers {
		out = append(out, NewWorker(spec, logger))
	}
	return out
}
