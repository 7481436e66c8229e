package swarm

import (
	"fmt"
	"strings"
	"time"
)

// NoWorker is the worker name on records for tasks nobody could take.
const NoWorker = "none"

// NoWorkerMessage is the error text of unassigned records.
const NoWorkerMessage = "no agent available"

// RecordStatus is the terminal state of a traversal node.
type RecordStatus string

const (
	StatusCompleted  RecordStatus = "completed"
	StatusFailed     RecordStatus = "failed"
	StatusUnassigned RecordStatus = "unassigned"
)

// Record describes one attempted (worker, task) pair, or a task that found no worker.
type Record struct {
	Worker string       `json:"worker"`
	Task   string       `json:"task"`
	Status RecordStatus `json:"status"`
	Result any          `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
	Depth  int          `json:"depth"`
}

// Trace is the outcome of one Run. Records are in the order nodes were entered.
type Trace struct {
	RunID       string    `json:"run_id"`
	InitialTask string    `json:"initial_task"`
	Records     []Record  `json:"records"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Len returns the number of records.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Duration returns how long the run took.
func (t *Trace) Duration() time.Duration {
	if t == nil || t.FinishedAt.IsZero() {
		return 0
	}
	return t.FinishedAt.Sub(t.StartedAt)
}

// Failed returns the records whose execution failed.
func (t *Trace) Failed() []Record {
	return t.filter(StatusFailed)
}

// Unassigned returns the records of tasks no worker could take.
func (t *Trace) Unassigned() []Record {
	return t.filter(StatusUnassigned)
}

func (t *Trace) filter(status RecordStatus) []Record {
	if t == nil {
		return nil
	}
	var out []Record
	for _, r := range t.Records {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

// MaxDepth returns the deepest record depth, or -1 for an empty trace.
func (t *Trace) MaxDepth() int {
	d := -1
	if t == nil {
		return d
	}
	for _, r := range t.Records {
		if r.Depth > d {
			d = r.Depth
		}
	}
	return d
}

// Render formats the trace as indented text, two spaces per depth level.
func (t *Trace) Render() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, r := range t.Records {
		b.WriteString(strings.Repeat("  ", r.Depth))
		switch r.Status {
		case StatusCompleted:
			fmt.Fprintf(&b, "%s <- %s: %v\n", r.Task, r.Worker, r.Result)
		default:
			fmt.Fprintf(&b, "%s <- %s: %s (%s)\n", r.Task, r.Worker, r.Error, r.Status)
		}
	}
	return b.String()
}

func (t *Trace) append(r Record) {
	t.Records = append(t.Records, r)
}
