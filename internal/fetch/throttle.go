// Package fetch holds the external data source clients: news search and
// daily price bars.
package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ErrBudgetExhausted signals the per-run request budget is spent; callers
// stop fetching and keep what they have.
var ErrBudgetExhausted = fmt.Errorf("request budget exhausted")

// Throttle spaces outbound API requests by a minimum delay and optionally
// caps the total number of requests in a run. Free-tier news and price
// APIs both rate-limit and hard-quota, so the pipeline does the same.
type Throttle struct {
	mu     sync.Mutex
	delay  time.Duration
	budget int // remaining requests, negative means unlimited
	last   time.Time
	sleep  func(time.Duration)
}

// NewThrottle builds a throttle with the given inter-request delay and a
// total request budget. A budget of zero or less means unlimited.
func NewThrottle(delay time.Duration, budget int) *Throttle {
	if budget <= 0 {
		budget = -1
	}
	return &Throttle{delay: delay, budget: budget, sleep: time.Sleep}
}

// Wait blocks until the next request is allowed and consumes one token.
// It returns ErrBudgetExhausted once the budget is spent, and the context
// error if ctx ends first.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	if t.budget == 0 {
		t.mu.Unlock()
		return ErrBudgetExhausted
	}
	if t.budget > 0 {
		t.budget--
	}
	var pause time.Duration
	now := time.Now()
	if !t.last.IsZero() {
		if elapsed := now.Sub(t.last); elapsed < t.delay {
			pause = t.delay - elapsed
		}
	}
	t.last = now.Add(pause)
	t.mu.Unlock()

	if pause > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.sleep(pause)
	}
	return ctx.Err()
}
