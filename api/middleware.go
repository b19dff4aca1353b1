package api

import (
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/killallgit/podscribe/api/types"
)

const (
	defaultMaxBody     = 1 << 20
	limiterIdleTimeout = 10 * time.Minute
	limiterSweepPeriod = 5 * time.Minute
)

// clientLimiter holds a rate limiter and its last access as unix nanos
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// RateLimiters keeps one token bucket per client IP and drops idle ones
type RateLimiters struct {
	clients sync.Map
	stop    chan struct{}
	once    sync.Once
	closed  sync.Once
}

// NewRateLimiters creates an empty limiter set
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{stop: make(chan struct{})}
}

// Middleware limits each client to rps requests per second with the given burst.
// Limiters are keyed by route group so separate groups do not share a budget.
func (rl *RateLimiters) Middleware(group string, rps, burst int) gin.HandlerFunc {
	rl.once.Do(func() { go rl.sweep() })
	if rps <= 0 {
		rps = 1
	}

	return func(c *gin.Context) {
		key := group + "|" + c.ClientIP()
		value, _ := rl.clients.LoadOrStore(key, &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		})
		cl := value.(*clientLimiter)
		cl.lastSeen.Store(time.Now().UnixNano())

		if !cl.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, types.ErrorResponse{
				Status: types.StatusError,
				Error:  "Rate limit exceeded. Please slow down your requests.",
			})
			return
		}
		c.Next()
	}
}

// Stop ends the idle sweeper
func (rl *RateLimiters) Stop() {
	rl.closed.Do(func() { close(rl.stop) })
}

func (rl *RateLimiters) sweep() {
	ticker := time.NewTicker(limiterSweepPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiters) evictIdle(now time.Time) {
	rl.clients.Range(func(key, value any) bool {
		cl := value.(*clientLimiter)
		if now.Sub(time.Unix(0, cl.lastSeen.Load())) > limiterIdleTimeout {
			rl.clients.Delete(key)
		}
		return true
	})
}

func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(defaultMaxBody)
}

// RequestSizeLimitWithSize rejects bodies declared larger than maxBytes and
// caps the rest while they are read
func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			if c.Request.ContentLength > maxBytes {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{
					Status: types.StatusError,
					Error:  "Request body too large",
				})
				return
			}
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}

// NotFoundHandler answers unknown routes
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  types.StatusError,
			"message": "The requested endpoint was not found",
			"path":    c.Request.URL.Path,
		})
	}
}
