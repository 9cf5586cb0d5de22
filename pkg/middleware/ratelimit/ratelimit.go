// Package ratelimit provides per-client request rate limiting.
package ratelimit

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter defines the interface for rate limiting implementations.
// Implementations must be thread-safe and support per-key rate limiting.
type RateLimiter interface {
	// Allow reports whether a request for the given key is within limits.
	Allow(key string) bool
}

// TokenBucketLimiter implements per-key token bucket rate limiting.
// Each key keeps its own bucket, so one noisy client cannot exhaust the
// budget of the others.
type TokenBucketLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewTokenBucketLimiter creates a token bucket limiter allowing an average of
// requestsPerSecond with bursts up to burst.
func NewTokenBucketLimiter(requestsPerSecond float64, burst int) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// Allow reports whether a request for the given key is within rate limits.
func (l *TokenBucketLimiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *TokenBucketLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := l.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return limiter.(*rate.Limiter)
}

// Config defines the configuration for rate limiting middleware.
type Config struct {
	// KeyFunc extracts the rate limiting key from the request. When nil,
	// requests are limited per client IP.
	KeyFunc func(c *gin.Context) string
}

// RateLimit creates middleware that rejects requests over the limit with
// HTTP 429 and a Retry-After header.
func RateLimit(limiter RateLimiter, cfg Config) gin.HandlerFunc {
	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string {
			return ExtractIPFromRequest(c.Request)
		}
	}

	return func(c *gin.Context) {
		if !limiter.Allow(keyFunc(c)) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

// ExtractIPFromRequest extracts the client IP address from the HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first, then falls back to
// RemoteAddr.
func ExtractIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs, take the first one
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// RemoteAddr is in "IP:port" form
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
