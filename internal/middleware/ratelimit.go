package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClientLimiter hands out one token bucket per client IP. It protects the
// dashboard API itself; the price API budget is enforced by the session.
type ClientLimiter struct {
	mu       sync.Mutex
	qps      rate.Limit
	burst    int
	limiters map[string]*clientEntry
	idleTTL  time.Duration
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewClientLimiter(qps float64, burst int) *ClientLimiter {
	if qps <= 0 {
		qps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &ClientLimiter{
		qps:      rate.Limit(qps),
		burst:    burst,
		limiters: make(map[string]*clientEntry),
		idleTTL:  10 * time.Minute,
	}
}

func (l *ClientLimiter) Get(clientIP string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.limiters[clientIP]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.qps, l.burst)}
		l.limiters[clientIP] = entry
	}
	entry.lastSeen = now

	// opportunistic cleanup of idle clients
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idleTTL {
			delete(l.limiters, ip)
		}
	}
	return entry.limiter
}

func RateLimitMiddleware(l *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		if !l.Get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    "RATE_LIMITED",
				"message": "too many requests",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
