package swarm

import "fmt"

// NextTasksKey is the key ParseOutcome looks for in dynamic results.
const NextTasksKey = "next_tasks"

// Outcome is the result of running a task.
// NextTasks lists follow-on tasks in the order they must be delegated; nil means none.
type Outcome struct {
	Value     any      `json:"value,omitempty"`
	NextTasks []string `json:"next_tasks,omitempty"`
}

// Result returns an Outcome carrying only a value.
func Result(v any) Outcome {
	return Outcome{Value: v}
}

// Delegate returns an Outcome carrying a value and follow-on tasks.
func Delegate(v any, next ...string) Outcome {
	return Outcome{Value: v, NextTasks: next}
}

// HasNext reports whether the outcome proposes follow-on tasks.
func (o Outcome) HasNext() bool {
	return len(o.NextTasks) > 0
}

// ParseOutcome converts a dynamically shaped result (decoded JSON, YAML, a map built
// by a worker) into an Outcome. A map with a next_tasks entry yields follow-on tasks:
// a single string becomes a one-element list, a list keeps its order. Empty values
// produce no follow-ons. Anything else is kept as the Outcome value.
func ParseOutcome(v any) Outcome {
	var raw any
	switch m := v.(type) {
	case map[string]any:
		raw = m[NextTasksKey]
	case map[string]string:
		raw = m[NextTasksKey]
	case map[string][]string:
		raw = m[NextTasksKey]
	default:
		return Outcome{Value: v}
	}
	return Outcome{Value: v, NextTasks: NormalizeTasks(raw)}
}

// NormalizeTasks turns a scalar or a sequence of tasks into an ordered list.
// Non-string scalars are formatted with %v; empty strings are dropped.
func NormalizeTasks(raw any) []string {
	var out []string
	add := func(v any) {
		if v == nil {
			return
		}
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprintf("%v", v)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	switch t := raw.(type) {
	case nil:
	case []string:
		for _, s := range t {
			add(s)
		}
	case []any:
		for _, s := range t {
			add(s)
		}
	default:
		add(t)
	}
	return out
}
