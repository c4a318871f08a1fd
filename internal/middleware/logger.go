package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/stockdash/internal/domain/dto"
	"github.com/guttosm/stockdash/internal/logger"
)

// RequestLogger is a Gin middleware that writes one structured line per request.
//
// 5xx responses log at error level, 4xx at warn, everything else at info.
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"123e4567-...","method":"GET","path":"/api/stock-data","query":"symbol=AAPL","status":200,"latency_ms":15,"message":"http_request"}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		rid, _ := c.Get(RequestIDKey)

		log := logger.Component("http")
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}

		ev.Str("request_id", toString(rid)).
			Str("method", method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("http_request")
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// visitor tracks one client IP inside the current window.
type visitor struct {
	windowStart time.Time
	count       int
}

// RateLimiter is an in-memory fixed-window limiter keyed by client IP.
// It is per instance; several replicas each apply their own limit.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

// NewRateLimiter allows limit requests per window per IP. limit <= 0 disables limiting.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{visitors: make(map[string]*visitor), limit: limit, window: window, now: time.Now}
}

// allow records one request from ip and reports whether it is within the limit.
func (l *RateLimiter) allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok || now.Sub(v.windowStart) >= l.window {
		l.sweep(now)
		v = &visitor{windowStart: now}
		l.visitors[ip] = v
	}
	v.count++
	return v.count <= l.limit
}

// sweep drops visitors whose window has ended. Caller holds mu.
func (l *RateLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.windowStart) >= l.window {
			delete(l.visitors, ip)
		}
	}
}

// Handler returns the Gin middleware.
//
// Response when the limit is exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{"message":"rate limit exceeded","timestamp":"..."}
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
