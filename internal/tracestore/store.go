package tracestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/config"
	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/types"
)

// Common errors
var (
	ErrNotFound     = errors.New("trace not found")
	ErrStoreClosed  = errors.New("store is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// Store types
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
	TypeSQL    = "sql"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Summary is the listing view of a stored trace.
type Summary struct {
	RunID       string    `json:"run_id"`
	InitialTask string    `json:"initial_task"`
	Records     int       `json:"records"`
	Failed      int       `json:"failed"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Summarize builds the Summary of a trace.
func Summarize(t *swarm.Trace) Summary {
	return Summary{
		RunID:       t.RunID,
		InitialTask: t.InitialTask,
		Records:     t.Len(),
		Failed:      len(t.Failed()),
		StartedAt:   t.StartedAt,
		FinishedAt:  t.FinishedAt,
	}
}

// Store persists traces by run ID.
type Store interface {
	// Save stores t, replacing any trace with the same run ID.
	Save(ctx context.Context, t *swarm.Trace) error
	// Get returns the trace of runID or an error wrapping ErrNotFound.
	Get(ctx context.Context, runID string) (*swarm.Trace, error)
	// List returns up to limit summaries, most recent run first.
	List(ctx context.Context, limit int) ([]Summary, error)
	Close() error
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s when it implements Pinger.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func validate(t *swarm.Trace) error {
	if t == nil || t.RunID == "" {
		return fmt.Errorf("%w: trace must have a run id", ErrInvalidInput)
	}
	return nil
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func notFound(runID string) error {
	return types.NewError(types.ErrRunNotFound, "run "+runID).WithCause(ErrNotFound)
}

// New creates a Store from configuration.
func New(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Type {
	case "", TypeMemory:
		return NewMemoryStore(), nil
	case TypeRedis:
		return NewRedisStoreFromConfig(ctx, cfg.Redis, logger)
	case TypeSQL:
		return OpenSQLStore(cfg.Database, logger)
	default:
		return nil, types.NewError(types.ErrInvalidConfig, fmt.Sprintf("unsupported trace store type: %s", cfg.Type))
	}
}

// OperationRecorder receives the outcome of each store call.
type OperationRecorder interface {
	RecordStoreOperation(operation string, err error)
}

type instrumented struct {
	Store
	rec OperationRecorder
}

// Instrumented reports every Save, Get and List of s to rec.
// A nil rec returns s unchanged.
func Instrumented(s Store, rec OperationRecorder) Store {
	if rec == nil {
		return s
	}
	return &instrumented{Store: s, rec: rec}
}

func (i *instrumented) Ping(ctx context.Context) error {
	return Ping(ctx, i.Store)
}

func (i *instrumented) Save(ctx context.Context, t *swarm.Trace) error {
	err := i.Store.Save(ctx, t)
	i.rec.RecordStoreOperation("save", err)
	return err
}

func (i *instrumented) Get(ctx context.Context, runID string) (*swarm.Trace, error) {
	t, err := i.Store.Get(ctx, runID)
	// A miss is a normal answer, not a store failure.
	if errors.Is(err, ErrNotFound) {
		i.rec.RecordStoreOperation("get", nil)
	} else {
		i.rec.RecordStoreOperation("get", err)
	}
	return t, err
}

func (i *instrumented) List(ctx context.Context, limit int) ([]Summary, error) {
	out, err := i.Store.List(ctx, limit)
	i.rec.RecordStoreOperation("list", err)
	return out, err
}
