package tracestore

import (
	"context"
	"slices"
	"sync"

	"github.com/BaSui01/swarmdfs/swarm"
)

// MemoryStore keeps traces in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	traces map[string]*swarm.Trace
	closed bool
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{traces: make(map[string]*swarm.Trace)}
}

func clone(t *swarm.Trace) *swarm.Trace {
	c := *t
	c.Records = slices.Clone(t.Records)
	return &c
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, t *swarm.Trace) error {
	if err := validate(t); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	s.traces[t.RunID] = clone(t)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, runID string) (*swarm.Trace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	t, ok := s.traces[runID]
	if !ok {
		return nil, notFound(runID)
	}
	return clone(t), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	out := make([]Summary, 0, len(s.traces))
	for _, t := range s.traces {
		out = append(out, Summarize(t))
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return compareStrings(a.RunID, b.RunID)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
