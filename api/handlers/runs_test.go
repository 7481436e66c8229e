package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/internal/tracestore"
	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/testutil"
	"github.com/BaSui01/swarmdfs/testutil/fixtures"
	"github.com/BaSui01/swarmdfs/testutil/mocks"
	"github.com/BaSui01/swarmdfs/types"
)

type traceResponse struct {
	Success bool        `json:"success"`
	Data    swarm.Trace `json:"data"`
	Error   *ErrorInfo  `json:"error"`
}

type listResponse struct {
	Success bool                 `json:"success"`
	Data    []tracestore.Summary `json:"data"`
}

func newRunMux(t *testing.T, runner Runner, store tracestore.Store, timeout time.Duration) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	NewRunHandler(runner, store, timeout, zap.NewNop()).Register(mux)
	return mux
}

func postRun(mux http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(w, r)
	return w
}

func TestRunHandler_CreateAndGet(t *testing.T) {
	store := tracestore.NewMemoryStore()
	mux := newRunMux(t, swarm.New(fixtures.FanOutPool()), store, 0)

	w := postRun(mux, `{"task":"T0"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created traceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.True(t, created.Success)
	require.NotEmpty(t, created.Data.RunID)
	testutil.AssertRecords(t, []string{"A:T0@0", "B:T1@1", "C:T2@1"}, &created.Data)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs/"+created.Data.RunID, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var fetched traceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, created.Data.RunID, fetched.Data.RunID)
	assert.Equal(t, testutil.RecordKeys(&created.Data), testutil.RecordKeys(&fetched.Data))
}

func TestRunHandler_CreateValidation(t *testing.T) {
	mux := newRunMux(t, swarm.New(fixtures.FanOutPool()), tracestore.NewMemoryStore(), 0)

	for _, body := range []string{`{"task":""}`, `{"task":"   "}`, `{}`, `not json`} {
		w := postRun(mux, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)

		var resp traceResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.NotNil(t, resp.Error, body)
		assert.Equal(t, string(types.ErrInvalidRequest), resp.Error.Code)
	}
}

func TestRunHandler_EmptyPoolStillCreates(t *testing.T) {
	mux := newRunMux(t, swarm.New(nil), tracestore.NewMemoryStore(), 0)

	w := postRun(mux, `{"task":"T0"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp traceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Empty(t, resp.Data.Records)
}

func TestRunHandler_TimeoutSavesPartialTrace(t *testing.T) {
	store := tracestore.NewMemoryStore()
	slow := mocks.NewMockWorker("A").WithDelay(time.Second)
	mux := newRunMux(t, swarm.New(mocks.Pool(slow)), store, 20*time.Millisecond)

	w := postRun(mux, `{"task":"T0"}`)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)

	var resp traceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrRunCancelled), resp.Error.Code)
	assert.True(t, resp.Error.Retryable)

	list, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type failingStore struct {
	tracestore.Store
}

func (failingStore) Save(context.Context, *swarm.Trace) error { return errors.New("disk full") }

func (failingStore) Get(context.Context, string) (*swarm.Trace, error) {
	return nil, errors.New("connection reset")
}

func TestRunHandler_StoreFailures(t *testing.T) {
	mux := newRunMux(t, swarm.New(fixtures.FanOutPool()), failingStore{tracestore.NewMemoryStore()}, 0)

	w := postRun(mux, `{"task":"T0"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs/abc", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRunHandler_GetMissing(t *testing.T) {
	mux := newRunMux(t, swarm.New(fixtures.FanOutPool()), tracestore.NewMemoryStore(), 0)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp traceResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, string(types.ErrRunNotFound), resp.Error.Code)
}

func TestRunHandler_List(t *testing.T) {
	mux := newRunMux(t, swarm.New(fixtures.FanOutPool()), tracestore.NewMemoryStore(), 0)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, postRun(mux, `{"task":"T0"}`).Code)
	}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs?limit=2", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp listResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, 3, resp.Data[0].Records)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/runs?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// overlapDetector fails the test if two runs overlap.
type overlapDetector struct {
	inner   Runner
	active  atomic.Int32
	overlap atomic.Bool
}

func (p *overlapDetector) Run(ctx context.Context, task string) (*swarm.Trace, error) {
	if p.active.Add(1) > 1 {
		p.overlap.Store(true)
	}
	defer p.active.Add(-1)
	time.Sleep(5 * time.Millisecond)
	return p.inner.Run(ctx, task)
}

func TestRunHandler_SerializesRuns(t *testing.T) {
	detector := &overlapDetector{inner: swarm.New(fixtures.FanOutPool())}
	mux := newRunMux(t, detector, tracestore.NewMemoryStore(), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusCreated, postRun(mux, `{"task":"T0"}`).Code)
		}()
	}
	wg.Wait()

	assert.False(t, detector.overlap.Load(), "runs overlapped")
}

type nilRunner struct{}

func (nilRunner) Run(context.Context, string) (*swarm.Trace, error) {
	return nil, types.NewError(types.ErrEmptyPool, "no workers configured")
}

func TestRunHandler_RunnerWithoutTrace(t *testing.T) {
	mux := newRunMux(t, nilRunner{}, tracestore.NewMemoryStore(), 0)

	w := postRun(mux, `{"task":"T0"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
