package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const localCleanupInterval = 5 * time.Minute

// LocalWindow is an in-process Limiter backed by one token bucket per key.
//
// The bucket refills continuously at capacity/window and caps at capacity, so
// a burst after a long idle period can consume the full capacity at once.
// That is a property of the algorithm, not a bug. State lives in process
// memory and is lost on restart, which is acceptable because local mode is
// itself the fallback strategy.
type LocalWindow struct {
	mu          sync.Mutex
	buckets     map[string]*rate.Limiter
	lastCleanup time.Time

	// now is the clock; overridden in tests.
	now func() time.Time
}

// NewLocalWindow constructs a LocalWindow with empty state.
func NewLocalWindow() *LocalWindow {
	return &LocalWindow{
		buckets:     make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

// Check consumes one unit for key if the bucket holds at least one token.
// It never returns an error.
func (l *LocalWindow) Check(
	_ context.Context,
	key string,
	capacity int,
	window time.Duration,
) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rate.Limit(float64(capacity)/window.Seconds()), capacity)
		l.buckets[key] = bucket
	}

	l.maybeCleanup(now)

	if !bucket.AllowN(now, 1) {
		return Decision{Allowed: false, Remaining: 0}, nil
	}
	return Decision{Allowed: true, Remaining: int(bucket.TokensAt(now))}, nil
}

// maybeCleanup drops buckets that have refilled completely, i.e. keys that
// have been idle for at least a full window. Caller holds l.mu.
func (l *LocalWindow) maybeCleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < localCleanupInterval {
		return
	}
	l.lastCleanup = now

	for key, bucket := range l.buckets {
		if bucket.TokensAt(now) >= float64(bucket.Burst()) {
			delete(l.buckets, key)
		}
	}
}
