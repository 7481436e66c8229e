package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/swarmdfs/swarm"
	"github.com/BaSui01/swarmdfs/testutil/fixtures"
	"github.com/BaSui01/swarmdfs/testutil/mocks"
)

func TestRecordKeys(t *testing.T) {
	assert.Nil(t, RecordKeys(nil))

	trace := &swarm.Trace{Records: []swarm.Record{
		{Worker: "A", Task: "T0", Depth: 0},
		{Worker: swarm.NoWorker, Task: "T1", Depth: 1},
	}}
	assert.Equal(t, []string{"A:T0@0", "none:T1@1"}, RecordKeys(trace))
}

func TestCancelledContext(t *testing.T) {
	assert.ErrorIs(t, CancelledContext().Err(), context.Canceled)
}

func TestFixtures_FanOutAndFailingRoot(t *testing.T) {
	trace, err := swarm.New(fixtures.FanOutPool()).Run(TestContext(t), "T0")
	require.NoError(t, err)
	AssertRecords(t, []string{"A:T0@0", "B:T1@1", "C:T2@1"}, trace)

	trace, err = swarm.New(fixtures.FailingRootPool()).Run(TestContext(t), "T0")
	require.NoError(t, err)
	AssertRecords(t, []string{"A:T0@0"}, trace)
	assert.Equal(t, "boom", trace.Records[0].Error)
}

func TestMockWorker_Scripting(t *testing.T) {
	ctx := TestContext(t)
	w := mocks.NewMockWorker("A").
		Delegate("plan", "write").
		Fail("review", errors.New("busy"))

	out, err := w.Run(ctx, "plan")
	require.NoError(t, err)
	assert.Equal(t, []string{"write"}, out.NextTasks)

	_, err = w.Run(ctx, "review")
	assert.EqualError(t, err, "busy")

	out, err = w.Run(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "A did other", out.Value)

	w.WithDefault(swarm.Result("fallback"))
	out, err = w.Run(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "fallback", out.Value)

	assert.Equal(t, []string{"plan", "review", "other", "other"}, w.Calls())
	assert.Equal(t, 4, w.CallCount())
}

func TestMockWorker_RunFuncAndDelay(t *testing.T) {
	w := mocks.NewMockWorker("A").WithRunFunc(func(_ context.Context, task string) (swarm.Outcome, error) {
		return swarm.Result("custom " + task), nil
	})
	out, err := w.Run(TestContext(t), "x")
	require.NoError(t, err)
	assert.Equal(t, "custom x", out.Value)

	slow := mocks.NewMockWorker("B").WithDelay(time.Hour)
	_, err = slow.Run(CancelledContext(), "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, slow.CallCount())
}
