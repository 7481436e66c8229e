package playbook

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/types"
)

// TaskList is a list of tasks that also accepts a single scalar in YAML.
type TaskList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *TaskList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			*l = nil
			return nil
		}
		*l = TaskList{node.Value}
		return nil
	case yaml.SequenceNode:
		var tasks []string
		if err := node.Decode(&tasks); err != nil {
			return fmt.Errorf("next_tasks: %w", err)
		}
		*l = tasks
		return nil
	default:
		return fmt.Errorf("next_tasks: line %d: expected a task or a list of tasks", node.Line)
	}
}

// Script is a worker's scripted answer to a task.
type Script struct {
	Output    any      `yaml:"output" json:"output,omitempty"`
	NextTasks TaskList `yaml:"next_tasks" json:"next_tasks,omitempty"`
	Error     string   `yaml:"error" json:"error,omitempty"`
}

// WorkerSpec describes one scripted worker.
type WorkerSpec struct {
	Name string `yaml:"name" json:"name"`
	// Handles lists path.Match patterns of accepted tasks. Empty accepts everything.
	Handles []string          `yaml:"handles" json:"handles,omitempty"`
	Tasks   map[string]Script `yaml:"tasks" json:"tasks,omitempty"`
	Default *Script           `yaml:"default" json:"default,omitempty"`
}

// Playbook is a named pool of scripted workers.
type Playbook struct {
	Name    string       `yaml:"name" json:"name"`
	Policy  string       `yaml:"policy" json:"policy,omitempty"`
	Workers []WorkerSpec `yaml:"workers" json:"workers"`
}

// Load reads and validates a playbook file.
func Load(file string) (*Playbook, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidPlaybook, "read playbook "+file).WithCause(err)
	}
	return Parse(data)
}

// Parse decodes and validates a playbook document.
func Parse(data []byte) (*Playbook, error) {
	var p Playbook
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, types.NewError(types.ErrInvalidPlaybook, "parse playbook").WithCause(err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks worker names and task patterns.
func (p *Playbook) Validate() error {
	seen := make(map[string]bool, len(p.Workers))
	for i, w := range p.Workers {
		if w.Name == "" {
			return types.NewError(types.ErrInvalidPlaybook, fmt.Sprintf("workers[%d]: name is required", i))
		}
		if w.Name == swarm.NoWorker {
			return types.NewError(types.ErrInvalidPlaybook, fmt.Sprintf("workers[%d]: name %q is reserved", i, w.Name))
		}
		if seen[w.Name] {
			return types.NewError(types.ErrInvalidPlaybook, fmt.Sprintf("workers[%d]: duplicate name %q", i, w.Name))
		}
		seen[w.Name] = true
		for _, pattern := range w.Handles {
			if _, err := path.Match(pattern, ""); err != nil {
				return types.NewError(types.ErrInvalidPlaybook,
					fmt.Sprintf("worker %s: bad handles pattern %q", w.Name, pattern)).WithCause(err)
			}
		}
	}
	return nil
}
