package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/task-manager/internal/domain"
	"github.com/baechuer/task-manager/internal/infrastructure/redis"
	"github.com/baechuer/task-manager/internal/logger"
)

type RateLimiter interface {
	AllowFixedWindow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// FixedWindowConfig defines the configuration for a fixed-window rate limit.
type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
}

func (c *FixedWindowConfig) normalize() {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.RouteKey == "" {
		c.RouteKey = "unknown"
	}
}

// RateLimitFixedWindow limits requests per client using the shared limiter.
// Limiter failures fail open.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg.normalize()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			bucket := windowBucket(time.Now(), cfg.Window)
			key := fmt.Sprintf("rl:%s:%s:%d", cfg.RouteKey, userOrIP(r), bucket)

			dec, err := limiter.AllowFixedWindow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().Err(err).Str("route", cfg.RouteKey).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))

			if !dec.Allowed {
				if dec.RetryAfter > 0 {
					secs := int(dec.RetryAfter.Round(time.Second).Seconds())
					w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				}
				writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitLocal is the in-process equivalent used when no Redis is configured.
func RateLimitLocal(cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg.normalize()

	return httprate.Limit(
		cfg.Limit,
		cfg.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return cfg.RouteKey + ":" + userOrIP(r), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
		}),
	)
}

func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window.Seconds())
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// userOrIP prefers the authenticated user id; otherwise falls back to client IP.
func userOrIP(r *http.Request) string {
	if uid, ok := UserIDFromContext(r.Context()); ok && strings.TrimSpace(uid) != "" {
		return "u:" + uid
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For is trusted: the service is expected to sit behind our own proxy.
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
