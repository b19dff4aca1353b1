package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/podscribe/api/types"
)

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	limiters := NewRateLimiters()
	t.Cleanup(limiters.Stop)
	require.NoError(t, RegisterRoutes(engine, &types.Dependencies{}, limiters))
	return engine
}

func TestRegisterRoutes_Docs(t *testing.T) {
	engine := setupEngine(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		contains       string
	}{
		{"ui", "/docs/index.html", http.StatusOK, "swagger-ui"},
		{"document", "/docs/doc.json", http.StatusOK, `"/api/v1/query"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}

	t.Run("redirect", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs", nil))

		assert.Equal(t, http.StatusMovedPermanently, w.Code)
		assert.Equal(t, "/docs/index.html", w.Header().Get("Location"))
	})
}

func TestRegisterRoutes_UnknownPath(t *testing.T) {
	w := httptest.NewRecorder()
	setupEngine(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
