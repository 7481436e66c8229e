package swarm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimited_WaitFailureIsExecutionFailure(t *testing.T) {
	a := scripted("A", nil, nil)
	// A burst of zero rejects every wait.
	limited := RateLimited(a, rate.NewLimiter(rate.Limit(1), 0))

	s := New([]Worker{limited}, WithObserver(NopObserver{}))
	trace, err := s.Run(context.Background(), "T0")
	require.NoError(t, err)

	require.Equal(t, 1, trace.Len())
	assert.Equal(t, StatusFailed, trace.Records[0].Status)
	assert.Contains(t, trace.Records[0].Error, "rate limit wait")
	assert.Empty(t, a.calls)
}

func TestRateLimited_PassesThrough(t *testing.T) {
	a := scripted("A", nil, nil)
	limited := RateLimited(a, rate.NewLimiter(rate.Inf, 1))

	out, err := limited.Run(context.Background(), "T0")
	require.NoError(t, err)
	assert.Equal(t, "A:T0", out.Value)
	assert.Equal(t, "A", limited.Name())
	assert.Same(t, Worker(a), RateLimited(a, nil))
}

func TestRateLimited_ForwardsCanHandle(t *testing.T) {
	coder := &matcherWorker{mockWorker: mockWorker{name: "coder"}, prefix: "code:"}
	limited := RateLimited(coder, rate.NewLimiter(rate.Inf, 1)).(TaskMatcher)

	assert.True(t, limited.CanHandle("code:x"))
	assert.False(t, limited.CanHandle("doc:x"))

	plain := RateLimited(scripted("p", nil, nil), rate.NewLimiter(rate.Inf, 1)).(TaskMatcher)
	assert.True(t, plain.CanHandle("anything"))
}

func TestRateLimitAll(t *testing.T) {
	ws := []Worker{scripted("A", nil, nil), scripted("B", nil, nil)}

	assert.Equal(t, ws, RateLimitAll(ws, 0, 0))

	limited := RateLimitAll(ws, 5, 0)
	require.Len(t, limited, 2)
	assert.Equal(t, "B", limited[1].Name())
	_, isLimited := limited[0].(*rateLimited)
	assert.True(t, isLimited)
}
