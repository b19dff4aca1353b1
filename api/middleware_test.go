package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"preflight request", http.MethodOptions, http.StatusNoContent},
		{"regular GET request", http.MethodGet, http.StatusOK},
		{"POST request", http.MethodPost, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS())
			router.Any("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", "https://example.com")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
		})
	}
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		bodySize       int
		expectedStatus int
	}{
		{"under limit", 100, http.StatusOK},
		{"at limit", 512, http.StatusOK},
		{"over limit", 513, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestSizeLimitWithSize(512))
			router.POST("/test", func(c *gin.Context) {
				body, err := io.ReadAll(c.Request.Body)
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
					return
				}
				c.JSON(http.StatusOK, gin.H{"received": len(body)})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRateLimiters(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name              string
		requestCount      int
		rps               int
		burst             int
		expectSomeBlocked bool
	}{
		{"under limit", 3, 10, 5, false},
		{"burst exceeded", 6, 1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiters := NewRateLimiters()
			defer limiters.Stop()

			router := gin.New()
			router.Use(limiters.Middleware("test", tt.rps, tt.burst))
			router.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "success"})
			})

			blocked := 0
			for i := 0; i < tt.requestCount; i++ {
				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.RemoteAddr = "127.0.0.1:12345"
				router.ServeHTTP(w, req)
				if w.Code == http.StatusTooManyRequests {
					blocked++
				}
			}

			if tt.expectSomeBlocked {
				assert.Greater(t, blocked, 0)
			} else {
				assert.Zero(t, blocked)
			}
		})
	}
}

func TestRateLimiters_SeparateClientsAndGroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiters := NewRateLimiters()
	defer limiters.Stop()

	router := gin.New()
	router.GET("/a", limiters.Middleware("a", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/b", limiters.Middleware("b", 1, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(path, addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = addr
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/a", "10.0.0.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, do("/a", "10.0.0.1:1"))
	assert.Equal(t, http.StatusOK, do("/a", "10.0.0.2:1"), "other clients have their own bucket")
	assert.Equal(t, http.StatusOK, do("/b", "10.0.0.1:1"), "other groups have their own bucket")
}

func TestRateLimiters_EvictIdle(t *testing.T) {
	limiters := NewRateLimiters()
	defer limiters.Stop()

	stale := &clientLimiter{}
	stale.lastSeen.Store(time.Now().Add(-time.Hour).UnixNano())
	fresh := &clientLimiter{}
	fresh.lastSeen.Store(time.Now().UnixNano())
	limiters.clients.Store("stale", stale)
	limiters.clients.Store("fresh", fresh)

	limiters.evictIdle(time.Now())

	_, ok := limiters.clients.Load("stale")
	assert.False(t, ok)
	_, ok = limiters.clients.Load("fresh")
	assert.True(t, ok)
}

func TestNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(slog.Default()))
	router.NoRoute(NotFoundHandler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "/missing")
}
