package swarm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapObserver_IndentsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	o := NewZapObserver(zap.New(core))

	o.Observe(Event{Kind: EventEnter, Level: LevelInfo, Worker: "A", Task: "T0", Depth: 0, Message: "enter"})
	o.Observe(Event{Kind: EventCycle, Level: LevelWarn, Worker: "B", Task: "T1", Depth: 2, Message: "cycle"})
	o.Observe(Event{Kind: EventFailure, Level: LevelError, Worker: "C", Task: "T2", Depth: 1, Message: "fail", Err: errors.New("x")})

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "enter", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "    cycle", entries[1].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "  fail", entries[2].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[2].ContextMap()
	assert.Equal(t, "C", fields["worker"])
	assert.Equal(t, "T2", fields["task"])
	assert.Equal(t, "failure", fields["event"])
	assert.Equal(t, "swarm_dfs", fields["component"])
}

func TestSwarm_DefaultObserverLogsThroughLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := scripted("A", map[string]Outcome{"T0": Delegate(nil, "T1")}, nil)

	s := New([]Worker{a}, WithLogger(zap.New(core)))
	_, err := s.Run(context.Background(), "T0")
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("DFS: Agent A processing task: T0").Len())
	assert.Equal(t, 1, logs.FilterMessage("DFS: No available agent for task: T1").Len())
}

func TestMultiObserver_FansOut(t *testing.T) {
	first, second := &recordingObserver{}, &recordingObserver{}
	m := MultiObserver{first, nil, second, NopObserver{}}

	m.Observe(Event{Kind: EventEnter})
	m.RunFinished(&Trace{}, nil)

	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
	assert.Len(t, first.finished, 1)
	assert.Len(t, second.finished, 1)
}
