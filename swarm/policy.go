package swarm

import (
	"fmt"
	"strings"
)

// Assignments maps a worker name to the task it has been assigned during a run.
// Entries are only ever added.
type Assignments map[string]string

// Has reports whether the worker already holds an assignment.
func (a Assignments) Has(worker string) bool {
	_, ok := a[worker]
	return ok
}

// Assign records that worker received task. An existing assignment is kept.
func (a Assignments) Assign(worker, task string) {
	if _, ok := a[worker]; ok {
		return
	}
	a[worker] = task
}

// TaskOf returns the task assigned to worker.
func (a Assignments) TaskOf(worker string) (string, bool) {
	t, ok := a[worker]
	return t, ok
}

// AssignmentPolicy picks the worker that receives a follow-on task.
// On success the policy records the assignment; when no worker is eligible it
// returns false and leaves assignments untouched.
type AssignmentPolicy interface {
	Select(current Worker, pool []Worker, assignments Assignments, task string) (Worker, bool)
}

// PolicyFunc adapts a function into an AssignmentPolicy.
type PolicyFunc func(current Worker, pool []Worker, assignments Assignments, task string) (Worker, bool)

// Select calls f.
func (f PolicyFunc) Select(current Worker, pool []Worker, assignments Assignments, task string) (Worker, bool) {
	return f(current, pool, assignments, task)
}

// FirstAvailable hands the task to the first worker in pool order that is not the
// current worker and has not been assigned anything yet in this run. A worker stays
// ineligible after its assigned task completes.
type FirstAvailable struct{}

// Select implements AssignmentPolicy.
func (FirstAvailable) Select(current Worker, pool []Worker, assignments Assignments, task string) (Worker, bool) {
	return selectFirst(current, pool, assignments, task, nil)
}

// Capability behaves like FirstAvailable but skips workers that implement
// TaskMatcher and decline the task.
type Capability struct{}

// Select implements AssignmentPolicy.
func (Capability) Select(current Worker, pool []Worker, assignments Assignments, task string) (Worker, bool) {
	return selectFirst(current, pool, assignments, task, func(w Worker) bool {
		if m, ok := w.(TaskMatcher); ok {
			return m.CanHandle(task)
		}
		return true
	})
}

func selectFirst(current Worker, pool []Worker, assignments Assignments, task string, accept func(Worker) bool) (Worker, bool) {
	for _, w := range pool {
		if current != nil && w.Name() == current.Name() {
			continue
		}
		if assignments.Has(w.Name()) {
			continue
		}
		if accept != nil && !accept(w) {
			continue
		}
		assignments.Assign(w.Name(), task)
		return w, true
	}
	return nil, false
}

// Policy names accepted by PolicyByName.
const (
	PolicyFirstAvailable = "first_available"
	PolicyCapability     = "capability"
)

// PolicyByName resolves a configured policy name. An empty name selects FirstAvailable.
func PolicyByName(name string) (AssignmentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyFirstAvailable:
		return FirstAvailable{}, nil
	case PolicyCapability:
		return Capability{}, nil
	default:
		return nil, fmt.Errorf("unknown assignment policy %q (supported: %s, %s)",
			name, PolicyFirstAvailable, PolicyCapability)
	}
}
