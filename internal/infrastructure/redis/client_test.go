package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newMiniClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewFromRedis(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_Ping_FailsFast(t *testing.T) {
	c := New("127.0.0.1:1", "", 0) // guaranteed unreachable

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := c.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}
}

func TestClient_Ping_Miniredis(t *testing.T) {
	c, _ := newMiniClient(t)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestClient_Close_Idempotent(t *testing.T) {
	c := New("127.0.0.1:1", "", 0)

	if err := c.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	// call twice should not panic
	_ = c.Close()
}
