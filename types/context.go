package types

import "context"

// contextKey is used for storing values in context.Context.
type contextKey string

const (
	keyTraceID contextKey = "trace_id"
	keyRunID   contextKey = "run_id"
	keyWorker  contextKey = "worker"
	keyDepth   contextKey = "depth"
)

// WithTraceID adds trace ID to context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, keyTraceID, traceID)
}

// TraceID extracts trace ID from context.
func TraceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyTraceID).(string)
	return v, ok && v != ""
}

// WithRunID adds run ID to context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, keyRunID, runID)
}

// RunID extracts run ID from context.
func RunID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRunID).(string)
	return v, ok && v != ""
}

// WithWorker adds the executing worker's name to context.
func WithWorker(ctx context.Context, worker string) context.Context {
	return context.WithValue(ctx, keyWorker, worker)
}

// Worker extracts the executing worker's name from context.
func Worker(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyWorker).(string)
	return v, ok && v != ""
}

// WithDepth adds the delegation depth of the current task to context.
func WithDepth(ctx context.Context, depth int) context.Context {
	return context.WithValue(ctx, keyDepth, depth)
}

// Depth extracts the delegation depth from context.
func Depth(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(keyDepth).(int)
	return v, ok
}
