package api

import (
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/gsarma/codepad/internal/session"
)

const (
	sessionCookie = "codepad_session"
	sessionCtxKey = "session"
)

// SessionMiddleware loads the browser's session, or starts a new one, and
// refreshes the session cookie.
func (h *Handler) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *session.Session

		if id, err := c.Cookie(sessionCookie); err == nil && session.ValidID(id) {
			s, err = h.sessions.Get(c.Request.Context(), id)
			if err != nil && !errors.Is(err, session.ErrNotFound) {
				log.Error().Err(err).Msg("load session")
			}
		}
		if s == nil {
			s = session.New()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, s.ID, int(h.sessionTTL.Seconds()), "/", "", false, true)
		c.Set(sessionCtxKey, s)
		c.Next()
	}
}

// sessionFrom returns the session set by SessionMiddleware.
func sessionFrom(c *gin.Context) *session.Session {
	v, _ := c.Get(sessionCtxKey)
	s, _ := v.(*session.Session)
	if s == nil {
		s = session.New()
	}
	return s
}

// RequestLogger logs one line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		evt := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// RateLimiter manages rate limiting per session
type RateLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rps      float64
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rps actions per second per key.
// A key unused for idle is forgotten.
func NewRateLimiter(rps float64, idle time.Duration) *RateLimiter {
	burst := int(math.Ceil(rps))
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rps:      rps,
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

// GetLimiter gets or creates a limiter for a key and marks the key as used.
func (rl *RateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if e, ok := rl.limiters[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	// new keys pay for dropping the idle ones
	for k, e := range rl.limiters {
		if now.Sub(e.lastSeen) > rl.idle {
			delete(rl.limiters, k)
		}
	}

	e := &limiterEntry{
		limiter:  rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		lastSeen: now,
	}
	rl.limiters[key] = e
	return e.limiter
}

// RateLimitMiddleware throttles form actions per session, falling back to
// the client IP.
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if v, ok := c.Get(sessionCtxKey); ok {
			if s, ok := v.(*session.Session); ok {
				key = s.ID
			}
		}

		if !limiter.GetLimiter(key).Allow() {
			log.Warn().Str("key", key).Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.String(http.StatusTooManyRequests, "Rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
