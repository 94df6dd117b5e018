package redis

import (
	"context"
	"testing"
	"time"
)

func TestFixedWindowLimiter_RedisNil_Allows(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	d, err := l.AllowFixedWindow(context.Background(), "k", 10, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected allowed when redis disabled")
	}
	if d.Remaining != 10 {
		t.Fatalf("unexpected remaining: %d", d.Remaining)
	}
}

func TestFixedWindowLimiter_NonPositiveLimit_Allows(t *testing.T) {
	c, _ := newMiniClient(t)
	l := NewFixedWindowLimiter(c)

	for _, limit := range []int{0, -5} {
		d, err := l.AllowFixedWindow(context.Background(), "k", limit, time.Minute)
		if err != nil || !d.Allowed {
			t.Fatalf("limit=%d: allowed=%v err=%v", limit, d.Allowed, err)
		}
		if d.Remaining != 0 {
			t.Fatalf("limit=%d: remaining=%d want 0", limit, d.Remaining)
		}
	}
}

func TestFixedWindowLimiter_BlocksAfterLimit(t *testing.T) {
	c, mr := newMiniClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.AllowFixedWindow(ctx, "rl:signin:ip:1.2.3.4:1", 3, time.Minute)
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !d.Allowed || d.Count != i || d.Remaining != 3-i {
			t.Fatalf("hit %d: unexpected decision %+v", i, d)
		}
	}

	d, err := l.AllowFixedWindow(ctx, "rl:signin:ip:1.2.3.4:1", 3, time.Minute)
	if err != nil {
		t.Fatalf("4th hit: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected 4th hit to be blocked")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("unexpected retry after: %v", d.RetryAfter)
	}

	if ttl := mr.TTL("rl:signin:ip:1.2.3.4:1"); ttl <= 0 {
		t.Fatalf("expected key to carry a ttl, got %v", ttl)
	}
}

func TestFixedWindowLimiter_WindowExpires(t *testing.T) {
	c, mr := newMiniClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	_, _ = l.AllowFixedWindow(ctx, "k", 1, time.Second)
	if d, _ := l.AllowFixedWindow(ctx, "k", 1, time.Second); d.Allowed {
		t.Fatalf("expected block inside window")
	}

	mr.FastForward(2 * time.Second)

	d, err := l.AllowFixedWindow(ctx, "k", 1, time.Second)
	if err != nil || !d.Allowed {
		t.Fatalf("expected allow after window, got %+v err=%v", d, err)
	}
}

func TestFixedWindowLimiter_RedisDown_ReturnsError(t *testing.T) {
	c, mr := newMiniClient(t)
	l := NewFixedWindowLimiter(c)
	mr.Close()

	if _, err := l.AllowFixedWindow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
