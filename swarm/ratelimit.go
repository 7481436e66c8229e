package swarm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimited throttles calls to the wrapped worker.
type rateLimited struct {
	Worker
	limiter *rate.Limiter
}

// RateLimited wraps w so each Run first waits on limiter. A nil limiter returns w.
// A wait that fails (cancelled context, burst of zero) becomes an execution failure.
func RateLimited(w Worker, limiter *rate.Limiter) Worker {
	if limiter == nil {
		return w
	}
	return &rateLimited{Worker: w, limiter: limiter}
}

// Run implements Worker.
func (r *rateLimited) Run(ctx context.Context, task string) (Outcome, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Outcome{}, fmt.Errorf("rate limit wait: %w", err)
	}
	return r.Worker.Run(ctx, task)
}

// CanHandle forwards to the wrapped worker when it is a TaskMatcher.
func (r *rateLimited) CanHandle(task string) bool {
	if m, ok := r.Worker.(TaskMatcher); ok {
		return m.CanHandle(task)
	}
	return true
}

// RateLimitAll wraps every worker with its own limiter built from rps and burst.
// rps <= 0 disables limiting.
func RateLimitAll(workers []Worker, rps float64, burst int) []Worker {
	if rps <= 0 {
		return workers
	}
	if burst <= 0 {
		burst = 1
	}
	out := make([]Worker, len(workers))
	for i, w := range workers {
		out[i] = RateLimited(w, rate.NewLimiter(rate.Limit(rps), burst))
	}
	return out
}
