package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Failover tries a primary (typically distributed) limiter and silently
// falls back to a secondary (typically local) one when the primary returns a
// transport error. Availability is favored over strict cross-instance
// correctness: a flapping shared store degrades per-instance counting, it
// never blocks traffic outright.
type Failover struct {
	Primary  Limiter
	Fallback Limiter
	Logger   *slog.Logger
}

func (f *Failover) Check(
	ctx context.Context,
	key string,
	capacity int,
	window time.Duration,
) (Decision, error) {
	decision, err := f.Primary.Check(ctx, key, capacity, window)
	if err == nil {
		return decision, nil
	}

	if f.Logger != nil {
		f.Logger.Warn("rate limit store unreachable, falling back to local counting",
			"key", key,
			"error", err,
		)
	}
	return f.Fallback.Check(ctx, key, capacity, window)
}
