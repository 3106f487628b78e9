package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// DistributedWindow is a sliding-window Limiter backed by a shared Redis
// sorted set, one set per key with entries scored by consumption time.
// Multiple service instances talking to the same store share one budget.
//
// The count-then-insert sequence is deliberately not transactional across
// instances: two instances can both observe count == capacity-1 and both
// insert, exceeding capacity by one unit. This is an accepted tradeoff for
// simplicity over heavier coordination.
type DistributedWindow struct {
	client redis.UniversalClient

	// now is the clock; overridden in tests.
	now func() time.Time
}

// NewDistributedWindow constructs a DistributedWindow over an existing
// client. It verifies connectivity so a misconfigured endpoint fails fast.
func NewDistributedWindow(ctx context.Context, client redis.UniversalClient) (*DistributedWindow, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &DistributedWindow{client: client, now: time.Now}, nil
}

// Check prunes entries older than the window, counts what remains, and
// inserts one new entry when under capacity. Any transport error is returned
// to the caller; Failover turns that into a silent local fallback.
func (d *DistributedWindow) Check(
	ctx context.Context,
	key string,
	capacity int,
	window time.Duration,
) (Decision, error) {
	now := d.now()
	redisKey := keyPrefix + key
	windowStart := now.Add(-window).UnixNano()

	pipe := d.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(countCmd.Val())
	if count >= capacity {
		return Decision{Allowed: false, Remaining: 0}, nil
	}

	// The random suffix keeps concurrent entries with identical timestamps
	// from collapsing into one member.
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString()

	pipe = d.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	// Keys for abandoned actors self-clean shortly after their window passes.
	pipe.Expire(ctx, redisKey, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	return Decision{Allowed: true, Remaining: capacity - (count + 1)}, nil
}
