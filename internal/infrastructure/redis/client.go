package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client owns the connection pool shared by the rate limiter.
type Client struct {
	rdb *goredis.Client
}

func New(addr, password string, db int) *Client {
	return NewFromRedis(goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}))
}

// NewFromRedis wraps an existing go-redis client (tests point it at miniredis).
func NewFromRedis(rdb *goredis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	// short ping timeout is good in bootstrap
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
