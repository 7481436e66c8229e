package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := NewError(ErrStoreUnavailable, "redis down").
		WithCause(root).
		WithRetryable(true).
		WithWorker("planner")

	if GetErrorCode(err) != ErrStoreUnavailable {
		t.Fatalf("expected code %s, got %s", ErrStoreUnavailable, GetErrorCode(err))
	}
	if !IsRetryable(err) {
		t.Fatalf("expected retryable")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := err.Error(); got != "[STORE_UNAVAILABLE] redis down: root" {
		t.Fatalf("unexpected error string %q", got)
	}
}

func TestError_WrappedChain(t *testing.T) {
	t.Parallel()

	inner := NewError(ErrRunNotFound, "run r1 not found")
	outer := fmt.Errorf("load trace: %w", inner)

	if !IsErrorCode(outer, ErrRunNotFound) {
		t.Fatalf("expected code to be found through fmt wrapping")
	}
	if IsRetryable(outer) {
		t.Fatalf("expected non-retryable")
	}
	if GetErrorCode(errors.New("plain")) != "" {
		t.Fatalf("expected empty code for plain error")
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	if WrapError(nil, ErrInvalidConfig, "x") != nil {
		t.Fatalf("expected nil for nil error")
	}
	err := WrapError(errors.New("bad yaml"), ErrInvalidPlaybook, "parse playbook")
	if !IsErrorCode(err, ErrInvalidPlaybook) {
		t.Fatalf("expected INVALID_PLAYBOOK, got %v", err)
	}
}
