package httpkit

import (
	"net/http"
	"sync"
	"time"

	"repairbot/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RequestLogger logs HTTP requests with timing.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		log.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// KeyFunc extracts the rate-limit key from a request, e.g. the client IP
// or the posted sender handle.
type KeyFunc func(c *gin.Context) string

// KeyRateLimiter manages per-key rate limiters.
type KeyRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewKeyRateLimiter creates a new keyed rate limiter.
func NewKeyRateLimiter(r rate.Limit, burst int, log *logger.Logger) *KeyRateLimiter {
	return &KeyRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

func (k *KeyRateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, exists := k.limiters.Load(key)
	if !exists {
		newLimiter := rate.NewLimiter(k.rate, k.burst)
		k.limiters.Store(key, newLimiter)
		return newLimiter
	}
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by the extracted key.
// Requests with an empty key fall back to the client IP. onLimit writes the
// response for an over-limit request; when nil the middleware answers with
// a 429 JSON body.
func (k *KeyRateLimiter) RateLimit(keyOf KeyFunc, onLimit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ""
		if keyOf != nil {
			key = keyOf(c)
		}
		if key == "" {
			key = c.ClientIP()
		}

		if !k.getLimiter(key).Allow() {
			if k.log != nil {
				k.log.RateLimitExceeded(key, c.Request.URL.Path)
			}
			if onLimit != nil {
				onLimit(c)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
