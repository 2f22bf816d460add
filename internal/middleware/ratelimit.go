package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimiter is a fixed-window per-client limiter backed by Redis, so the
// limit holds across multiple instances of the service. When Redis is
// unreachable the limiter fails open.
type RateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    *logrus.Logger
}

// NewRateLimiter initializes a limiter allowing limit requests per window.
func NewRateLimiter(addr string, limit int, window time.Duration, log *logrus.Logger) *RateLimiter {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		log:    log,
	}
}

// Allow reports whether a request from the given client IP is within the
// window's budget.
func (rl *RateLimiter) Allow(r *http.Request) bool {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	ctx := r.Context()
	key := fmt.Sprintf("ratelimit:%s", ip)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		rl.log.Warnf("Rate limiter unavailable, allowing request: %v", err)
		return true
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
			rl.log.Warnf("Failed to set rate limit window for %s: %v", ip, err)
		}
	}
	return count <= int64(rl.limit)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(r) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
