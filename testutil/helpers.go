// =============================================================================
// 🧪 Test helpers
// =============================================================================
//
//	ctx := testutil.TestContext(t)
//	testutil.AssertRecords(t, []string{"A:T0@0", "B:T1@1"}, trace)
// =============================================================================
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/BaSui01/swarmdfs/swarm"
)

// =============================================================================
// 🎯 Contexts
// =============================================================================

// TestContext returns a context cancelled after 30s or at test cleanup.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext returns a context that is already cancelled.
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 🔍 Assertions
// =============================================================================

// RecordKeys flattens a trace into "worker:task@depth" keys.
func RecordKeys(trace *swarm.Trace) []string {
	if trace == nil {
		return nil
	}
	keys := make([]string, 0, len(trace.Records))
	for _, r := range trace.Records {
		keys = append(keys, fmt.Sprintf("%s:%s@%d", r.Worker, r.Task, r.Depth))
	}
	return keys
}

// AssertRecords checks record order and depth against expected keys.
func AssertRecords(t *testing.T, expected []string, trace *swarm.Trace) {
	t.Helper()

	actual := RecordKeys(trace)
	if len(expected) != len(actual) {
		t.Errorf("record count mismatch: expected %d, got %d\nexpected: %v\nactual:   %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("record[%d] mismatch: expected %q, got %q", i, expected[i], actual[i])
		}
	}
}
