package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/videolib/internal/logging"
	"github.com/therealutkarshpriyadarshi/videolib/internal/metrics"
	"github.com/therealutkarshpriyadarshi/videolib/pkg/models"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "Rate limit exceeded"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter manages per-client token buckets for API requests
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(rps int, burst int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// getLimiter returns a rate limiter for a specific key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()

	rl.mu.RLock()
	v, exists := rl.visitors[key]
	rl.mu.RUnlock()

	if exists {
		rl.mu.Lock()
		v.lastSeen = now
		rl.mu.Unlock()
		return v.limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if v, exists = rl.visitors[key]; exists {
		v.lastSeen = now
		return v.limiter
	}

	v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst), lastSeen: now}
	rl.visitors[key] = v

	return v.limiter
}

// Size returns the number of tracked clients
func (rl *RateLimiter) Size() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.visitors)
}

// Evict drops limiters idle for longer than maxIdle
func (rl *RateLimiter) Evict(maxIdle time.Duration) int {
	cutoff := rl.now().Add(-maxIdle)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

// Cleanup evicts idle limiters every interval until ctx is done
func (rl *RateLimiter) Cleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Evict(maxIdle)
		}
	}
}

func clientKey(c *gin.Context) string {
	return fmt.Sprintf("ip:%s", c.ClientIP())
}

func rejectRateLimited(c *gin.Context, backend string) {
	metrics.RecordRateLimited(backend)
	c.AbortWithStatusJSON(http.StatusTooManyRequests, models.Failure(rateLimitMessage, nil))
}

// RateLimit middleware limits requests per client IP
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(clientKey(c)).Allow() {
			rejectRateLimited(c, "memory")
			return
		}

		c.Next()
	}
}

// RateLimitChecker counts hits against a shared fixed window
type RateLimitChecker interface {
	CheckRateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, error)
}

// SharedRateLimit middleware limits requests per client IP across replicas.
// Backend errors let the request through.
func SharedRateLimit(checker RateLimitChecker, limit int64, window time.Duration, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := checker.CheckRateLimit(c.Request.Context(), clientKey(c), limit, window)
		if err != nil {
			metrics.RecordError("ratelimit", "backend")
			logger.ErrorWithErr("rate limit backend unavailable", err)
			c.Next()
			return
		}

		if !allowed {
			rejectRateLimited(c, "redis")
			return
		}

		c.Next()
	}
}
