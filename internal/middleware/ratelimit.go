package middleware

import (
	"sync"
	"time"

	"credmatrix_backend/internal/logger"
	"credmatrix_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(key string) bool
}

type visitor struct {
	limiter *rate.Limiter
	last    time.Time
}

// MemoryLimiter is a per key token bucket kept in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
	}
}

func (l *MemoryLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[key] = v
	}
	v.last = time.Now()
	return v.limiter.Allow()
}

// Cleanup drops visitors idle for longer than the idle TTL and returns how
// many were removed.
func (l *MemoryLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for k, v := range l.visitors {
		if time.Since(v.last) > l.idleTTL {
			delete(l.visitors, k)
			removed++
		}
	}
	return removed
}

// RateLimit limits by client IP. prefix separates independent budgets that
// share one limiter backend.
func RateLimit(limiter Limiter, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		key := prefix + ":" + c.ClientIP()
		if !limiter.Allow(key) {
			logger.CtxWarn(c.Request.Context(), "rate limit exceeded", "key", key)
			apperrors.HandleError(c, apperrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
