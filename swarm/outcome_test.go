package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "plain string", in: "hello", want: nil},
		{name: "map without key", in: map[string]any{"answer": 42}, want: nil},
		{name: "scalar next task", in: map[string]any{"next_tasks": "T1"}, want: []string{"T1"}},
		{name: "list of tasks", in: map[string]any{"next_tasks": []any{"T1", "T2"}}, want: []string{"T1", "T2"}},
		{name: "typed list", in: map[string][]string{"next_tasks": {"T2", "T1"}}, want: []string{"T2", "T1"}},
		{name: "string map", in: map[string]string{"next_tasks": "T9"}, want: []string{"T9"}},
		{name: "empty list", in: map[string]any{"next_tasks": []any{}}, want: nil},
		{name: "empty string", in: map[string]any{"next_tasks": ""}, want: nil},
		{name: "numeric scalar", in: map[string]any{"next_tasks": 7}, want: []string{"7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ParseOutcome(tt.in)
			assert.Equal(t, tt.want, out.NextTasks)
			assert.Equal(t, tt.in, out.Value)
			assert.Equal(t, len(tt.want) > 0, out.HasNext())
		})
	}
}

func TestDelegate(t *testing.T) {
	out := Delegate("v", "a", "b")
	assert.Equal(t, "v", out.Value)
	assert.Equal(t, []string{"a", "b"}, out.NextTasks)
	assert.False(t, Result("v").HasNext())
}
