package http

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/repo"
	"go.uber.org/zap"
)

// Limiter decides whether one more hit for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	tokens  int
	updated time.Time
}

// RateLimiter is a per-process fixed window limiter.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{buckets: make(map[string]*bucket), rate: rate, window: window, now: time.Now}
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.updated) > rl.window {
		rl.buckets[key] = &bucket{tokens: 1, updated: now}
		return true, nil
	}
	if b.tokens < rl.rate {
		b.tokens++
		return true, nil
	}
	return false, nil
}

// RedisLimiter shares the window between all API replicas.
type RedisLimiter struct {
	R      *repo.Redis
	Rate   int
	Window time.Duration
}

func (l RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return l.R.Allow(ctx, key, l.Rate, l.Window)
}

func ClientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	host, _, err := net.SplitHostPort(ip)
	if err == nil && host != "" {
		return host
	}
	return ip
}

// RateLimit rejects callers over the limit with 429. A limiter failure lets
// the request through.
func RateLimit(rl Limiter, scope string, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := rl.Allow(c.Request.Context(), scope+":"+ClientIP(c))
		if err != nil {
			l.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			c.Next()
			return
		}
		if !ok {
			_ = c.Error(apperror.RateLimited())
			c.Abort()
			return
		}
		c.Next()
	}
}
