package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"university/backend/metrics"
	"university/backend/utils"
)

type window struct {
	start time.Time
	count int
}

// RateLimiter counts requests per key in fixed windows. At most capacity
// keys are tracked; idle keys expire after one window and the least
// recently seen key is evicted when the table is full.
type RateLimiter struct {
	mu      sync.Mutex
	windows *expirable.LRU[string, *window]
	limit   int
	period  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, period time.Duration, capacity int) *RateLimiter {
	return &RateLimiter{
		windows: expirable.NewLRU[string, *window](capacity, nil, period),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it is within the
// limit, how many requests remain and when the window resets.
func (l *RateLimiter) Allow(key string) (bool, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows.Get(key)
	if !ok || now.Sub(w.start) >= l.period {
		w = &window{start: now}
	}
	w.count++
	l.windows.Add(key, w)

	remaining := l.limit - w.count
	if remaining < 0 {
		remaining = 0
	}
	return w.count <= l.limit, remaining, w.start.Add(l.period)
}

// Len reports how many keys are currently tracked.
func (l *RateLimiter) Len() int {
	return l.windows.Len()
}

func RateLimitMiddleware(l *RateLimiter, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, remaining, reset := l.Allow(c.IP())
		c.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		if !allowed {
			if m != nil {
				m.Throttled()
			}
			return utils.TooManyRequests(c, "Too many requests, please try again later")
		}
		return c.Next()
	}
}
