package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/internal/tracestore"
	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/types"
)

// =============================================================================
// 🐝 Run Handler
// =============================================================================

// Runner runs one delegation from an initial task. *swarm.Swarm implements it.
type Runner interface {
	Run(ctx context.Context, initialTask string) (*swarm.Trace, error)
}

// RunRequest is the POST /v1/runs body.
type RunRequest struct {
	Task string `json:"task"`
}

// RunHandler starts runs and serves stored traces.
type RunHandler struct {
	runner  Runner
	store   tracestore.Store
	timeout time.Duration
	logger  *zap.Logger

	// serializes runs; a Swarm is not safe for concurrent Runs
	mu sync.Mutex
}

// NewRunHandler creates a RunHandler. A zero timeout leaves runs unbounded.
func NewRunHandler(runner Runner, store tracestore.Store, timeout time.Duration, logger *zap.Logger) *RunHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunHandler{
		runner:  runner,
		store:   store,
		timeout: timeout,
		logger:  logger.With(zap.String("handler", "runs")),
	}
}

// Register mounts the run routes on mux.
func (h *RunHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/runs", h.HandleCreate)
	mux.HandleFunc("GET /v1/runs", h.HandleList)
	mux.HandleFunc("GET /v1/runs/{id}", h.HandleGet)
}

// HandleCreate runs the task synchronously and stores the trace.
func (h *RunHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		WriteError(w, types.NewError(types.ErrInvalidRequest, "task is required"), h.logger)
		return
	}

	trace, runErr := h.run(r.Context(), req.Task)
	if trace == nil {
		WriteErrorFrom(w, runErr, h.logger)
		return
	}

	// a cancelled run still stores its partial trace
	if err := h.store.Save(context.WithoutCancel(r.Context()), trace); err != nil {
		WriteError(w, types.NewError(types.ErrStoreUnavailable, "failed to save trace").
			WithCause(err).WithRetryable(true), h.logger)
		return
	}

	if runErr != nil {
		WriteError(w, types.NewError(types.ErrRunCancelled, "run "+trace.RunID+" stopped early").
			WithCause(runErr).WithRetryable(true), h.logger)
		return
	}

	h.logger.Info("run completed",
		zap.String("run_id", trace.RunID),
		zap.Int("records", trace.Len()),
		zap.Int("failed", len(trace.Failed())),
		zap.Duration("duration", trace.Duration()),
	)
	WriteSuccess(w, http.StatusCreated, trace)
}

func (h *RunHandler) run(ctx context.Context, task string) (*swarm.Trace, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	return h.runner.Run(ctx, task)
}

// HandleGet serves GET /v1/runs/{id}.
func (h *RunHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	trace, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, trace)
}

// HandleList serves GET /v1/runs?limit=N, newest first.
func (h *RunHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, types.NewError(types.ErrInvalidRequest, "limit must be a non-negative integer"), h.logger)
			return
		}
		limit = n
	}

	runs, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, runs)
}

func (h *RunHandler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, tracestore.ErrNotFound) {
		WriteErrorFrom(w, err, h.logger)
		return
	}
	WriteError(w, types.NewError(types.ErrStoreUnavailable, "trace store error").
		WithCause(err).WithRetryable(true), h.logger)
}
