package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"zephyrs-web/internal/delivery/http/response"
	"zephyrs-web/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const tooManyMessage = "Too many messages. Please wait a minute and try again."

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: client IP)
	KeyFunc func(*gin.Context) string
	// Key prefix, shared by Redis and memory counters
	KeyPrefix string
	// Reject with 503 instead of counting in memory when Redis fails
	FailClosed bool
}

// DefaultRateLimitConfig caps the JSON API per IP.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     100,
		Window:    time.Minute,
		KeyPrefix: "rl:ip:",
	}
}

// ContactRateLimitConfig limits contact submissions per IP. It fails open so
// a Redis outage never blocks the form.
func ContactRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:contact:",
	}
}

// counter increments key inside a fixed window and reports the new count and
// when the window resets.
type counter interface {
	incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

// INCR with EXPIRE on first hit. Returns {count, ttl_seconds}.
var windowScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return {count, redis.call('TTL', KEYS[1])}
`)

type redisCounter struct {
	client *goredis.Client
	now    func() time.Time
}

func (r *redisCounter) incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	vals, err := windowScript.Run(ctx, r.client, []string{key}, int(window.Seconds())).Int64Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(vals) < 2 {
		return 0, time.Time{}, fmt.Errorf("rate limit script: unexpected reply %v", vals)
	}
	return int(vals[0]), r.now().Add(time.Duration(vals[1]) * time.Second), nil
}

type windowEntry struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// memoryCounter is per process; it backs the limiter without Redis and while
// Redis is failing.
type memoryCounter struct {
	entries sync.Map
	now     func() time.Time
}

func (m *memoryCounter) incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := m.now()
	v, _ := m.entries.LoadOrStore(key, &windowEntry{resetAt: now.Add(window)})
	e := v.(*windowEntry)

	e.mu.Lock()
	defer e.mu.Unlock()
	if now.After(e.resetAt) {
		e.count = 0
		e.resetAt = now.Add(window)
	}
	e.count++
	return e.count, e.resetAt, nil
}

// sweep drops windows that have ended.
func (m *memoryCounter) sweep() {
	now := m.now()
	m.entries.Range(func(key, v interface{}) bool {
		e := v.(*windowEntry)
		e.mu.Lock()
		if now.After(e.resetAt) {
			m.entries.Delete(key)
		}
		e.mu.Unlock()
		return true
	})
}

// RateLimiter counts requests in Redis when a client is wired and in process
// memory otherwise.
type RateLimiter struct {
	shared counter
	memory *memoryCounter
	secLog *security.SecurityLogger
	now    func() time.Time
}

// NewRateLimiter creates a limiter. client and secLog may be nil.
func NewRateLimiter(client *goredis.Client, secLog *security.SecurityLogger) *RateLimiter {
	l := &RateLimiter{secLog: secLog, now: time.Now}
	l.memory = &memoryCounter{now: func() time.Time { return l.now() }}
	if client != nil {
		l.shared = &redisCounter{client: client, now: func() time.Time { return l.now() }}
	}
	return l
}

// RunCleanup drops expired in-memory windows until ctx is done.
func (l *RateLimiter) RunCleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.memory.sweep()
		}
	}
}

// Middleware creates a rate limiting middleware with the given config
func (l *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	limit := strconv.Itoa(config.Limit)

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)

		count, resetAt, ok := l.count(c, key, config)
		if !ok {
			response.Reject(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.",
				`<p>Service temporarily unavailable. Please try again.</p>`)
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(l.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			if l.secLog != nil {
				l.secLog.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), response.RequestID(c), c.FullPath())
			}
			response.Reject(c, http.StatusTooManyRequests, tooManyMessage,
				`<p>`+tooManyMessage+` <a href="/contact">Back</a></p>`)
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

// count prefers the shared counter and falls back to memory unless the
// config fails closed. ok is false only when the request must be rejected.
func (l *RateLimiter) count(c *gin.Context, key string, config RateLimitConfig) (int, time.Time, bool) {
	if l.shared != nil {
		n, resetAt, err := l.shared.incr(c.Request.Context(), key, config.Window)
		if err == nil {
			return n, resetAt, true
		}
		l.logBackendError(c, err)
		if config.FailClosed {
			return 0, time.Time{}, false
		}
	}
	n, resetAt, _ := l.memory.incr(c.Request.Context(), key, config.Window)
	return n, resetAt, true
}

func (l *RateLimiter) logBackendError(c *gin.Context, err error) {
	if l.secLog == nil {
		return
	}
	l.secLog.Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventRateLimitTriggered,
		SubjectType: "system",
		IP:          c.ClientIP(),
		RequestID:   response.RequestID(c),
		Details:     map[string]interface{}{"error_type": "redis_error", "error": err.Error()},
	})
}
