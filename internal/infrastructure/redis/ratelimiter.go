package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the window counter and arms its expiry on the
// first hit, atomically. Returns {count, ttl_ms}.
var fixedWindowScript = goredis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`)

// FixedWindowLimiter counts hits per key inside a fixed window.
// The key should already include route, identity and window bucket.
type FixedWindowLimiter struct {
	rdb *goredis.Client
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	if c == nil {
		return &FixedWindowLimiter{}
	}
	return &FixedWindowLimiter{rdb: c.rdb}
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // 0 if allowed
	ResetAt    time.Time
	Count      int
}

// AllowFixedWindow reports whether one more hit fits in key's window.
// A nil client or non-positive limit always allows.
func (l *FixedWindowLimiter) AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 || l.rdb == nil {
		return Decision{Allowed: true, Limit: limit, Remaining: max(limit, 0)}, nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit redis eval: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit redis eval: unexpected result length %d", len(res))
	}

	count := int(res[0])
	ttl := time.Duration(res[1]) * time.Millisecond

	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(0, limit-count),
		Count:     count,
		ResetAt:   time.Now().Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = window
		if ttl > 0 {
			d.RetryAfter = ttl
		}
	}
	return d, nil
}
