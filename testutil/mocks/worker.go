package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/BaSui01/swarmdfs/swarm"
)

// MockWorker answers tasks from a script and records every call.
type MockWorker struct {
	mu sync.RWMutex

	name     string
	outcomes map[string]swarm.Outcome
	errs     map[string]error
	fallback *swarm.Outcome
	delay    time.Duration
	runFunc  func(ctx context.Context, task string) (swarm.Outcome, error)

	calls []string
}

// NewMockWorker creates a worker that answers "<name> did <task>" to unscripted tasks.
func NewMockWorker(name string) *MockWorker {
	return &MockWorker{
		name:     name,
		outcomes: make(map[string]swarm.Outcome),
		errs:     make(map[string]error),
	}
}

// On scripts the outcome of task.
func (m *MockWorker) On(task string, outcome swarm.Outcome) *MockWorker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[task] = outcome
	return m
}

// Delegate scripts task to complete and propose next.
func (m *MockWorker) Delegate(task string, next ...string) *MockWorker {
	return m.On(task, swarm.Delegate(m.name+" did "+task, next...))
}

// Fail scripts task to return err.
func (m *MockWorker) Fail(task string, err error) *MockWorker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[task] = err
	return m
}

// WithDefault sets the outcome of unscripted tasks.
func (m *MockWorker) WithDefault(outcome swarm.Outcome) *MockWorker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &outcome
	return m
}

// WithDelay sleeps before every answer, returning early on ctx cancellation.
func (m *MockWorker) WithDelay(d time.Duration) *MockWorker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithRunFunc replaces the script with fn.
func (m *MockWorker) WithRunFunc(fn func(ctx context.Context, task string) (swarm.Outcome, error)) *MockWorker {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runFunc = fn
	return m
}

// Name implements swarm.Worker.
func (m *MockWorker) Name() string { return m.name }

// Run implements swarm.Worker.
func (m *MockWorker) Run(ctx context.Context, task string) (swarm.Outcome, error) {
	m.mu.Lock()
	m.calls = append(m.calls, task)
	delay, runFunc := m.delay, m.runFunc
	outcome, scripted := m.outcomes[task]
	err := m.errs[task]
	fallback := m.fallback
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return swarm.Outcome{}, ctx.Err()
		}
	}

	if runFunc != nil {
		return runFunc(ctx, task)
	}
	if err != nil {
		return swarm.Outcome{}, err
	}
	if scripted {
		return outcome, nil
	}
	if fallback != nil {
		return *fallback, nil
	}
	return swarm.Result(fmt.Sprintf("%s did %s", m.name, task)), nil
}

// Calls returns the tasks run so far, in order.
func (m *MockWorker) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

// CallCount returns the number of Run calls.
func (m *MockWorker) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// Pool converts mocks into a worker pool.
func Pool(workers ...*MockWorker) []swarm.Worker {
	out := make([]swarm.Worker, len(workers))
	for i, w := range workers {
		out[i] = w
	}
	return out
}
