// Package ratelimit answers "is one more unit of work allowed right now" for
// abuse-mitigation purposes.
//
// Two interchangeable strategies implement the Limiter interface:
//
//   - LocalWindow: an in-process token bucket with continuous refill. Cheap,
//     no external dependencies, state lost on restart.
//   - DistributedWindow: a sliding-window counter over a shared Redis sorted
//     set, so multiple service instances share one abuse budget.
//
// Failover wraps the two so that any transport failure talking to the shared
// store silently degrades to local counting for that call. All strategies are
// best-effort: concurrent contention can briefly exceed capacity by one unit,
// which is acceptable for throttling (this is not billing-grade metering).
package ratelimit

import (
	"context"
	"time"
)

// Decision reports the outcome of a single Check call.
type Decision struct {
	// Allowed is whether the unit of work may proceed.
	Allowed bool
	// Remaining is the approximate number of further units available in the
	// window. Zero when denied.
	Remaining int
}

// Limiter decides whether one more unit of work is allowed for a key.
//
// The key is a caller-constructed composite of action and actor, e.g.
// "invite.issue:01ARZ...", so budgets are scoped per action and per actor.
// Consumed units are never refunded, even if the guarded operation is later
// cancelled.
type Limiter interface {
	Check(ctx context.Context, key string, capacity int, window time.Duration) (Decision, error)
}
