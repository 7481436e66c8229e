package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/internal/tracestore"
)

// =============================================================================
// 🧪 Test doubles
// =============================================================================

// mockHealthCheck returns a fixed error.
type mockHealthCheck struct {
	name string
	err  error
}

func (m *mockHealthCheck) Name() string {
	return m.name
}

func (m *mockHealthCheck) Check(ctx context.Context) error {
	return m.err
}

// =============================================================================
// 🧪 HealthHandler
// =============================================================================

func TestHealthHandler_HandleHealth(t *testing.T) {
	handler := NewHealthHandler("v1.2.3", zap.NewNop())

	w := httptest.NewRecorder()
	handler.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var status HealthStatus
	require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "v1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthHandler_HandleReady(t *testing.T) {
	t.Run("all pass", func(t *testing.T) {
		handler := NewHealthHandler("", nil)
		handler.RegisterCheck(&mockHealthCheck{name: "db"})
		handler.RegisterCheck(NewStoreHealthCheck(tracestore.NewMemoryStore()))

		w := httptest.NewRecorder()
		handler.HandleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)

		var status HealthStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "pass", status.Checks["db"].Status)
		assert.Equal(t, "pass", status.Checks["trace_store"].Status)
	})

	t.Run("one fails", func(t *testing.T) {
		handler := NewHealthHandler("", nil)
		handler.RegisterCheck(&mockHealthCheck{name: "ok"})
		handler.RegisterCheck(&mockHealthCheck{name: "redis", err: errors.New("connection refused")})

		w := httptest.NewRecorder()
		handler.HandleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var status HealthStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "fail", status.Checks["redis"].Status)
		assert.Equal(t, "connection refused", status.Checks["redis"].Message)
	})
}

func TestHealthHandler_Register(t *testing.T) {
	mux := http.NewServeMux()
	NewHealthHandler("", nil).Register(mux)

	for _, path := range []string{"/health", "/ready"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
