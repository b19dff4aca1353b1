package query

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/podscribe/api/apitest"
	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/services/library"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hits := []library.QueryResult{
		{Score: 0.9, Text: "Stay hungry, stay foolish.", Episode: library.EpisodeInfo{ID: 1, Title: "Commencement"}, Channel: library.ChannelInfo{ID: 1, Title: "Talks"}},
		{Score: 0.4, Text: "I wish that for you.", Episode: library.EpisodeInfo{ID: 1, Title: "Commencement"}, Channel: library.ChannelInfo{ID: 1, Title: "Talks"}},
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(m *apitest.MockLibrary)
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "results with explicit k",
			url:  "/query?q=stay+hungry&k=2",
			setupMock: func(m *apitest.MockLibrary) {
				m.On("Query", mock.Anything, "stay hungry", 2).Return(hits, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name: "default k",
			url:  "/query?q=foolish",
			setupMock: func(m *apitest.MockLibrary) {
				m.On("Query", mock.Anything, "foolish", 0).Return(hits[:1], nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:           "missing q",
			url:            "/query",
			setupMock:      func(m *apitest.MockLibrary) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid k",
			url:            "/query?q=x&k=zero",
			setupMock:      func(m *apitest.MockLibrary) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "blank q",
			url:  "/query?q=+++",
			setupMock: func(m *apitest.MockLibrary) {
				m.On("Query", mock.Anything, "   ", 0).Return(nil, library.ErrEmptyQuery)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "library failure",
			url:  "/query?q=x",
			setupMock: func(m *apitest.MockLibrary) {
				m.On("Query", mock.Anything, "x", 0).Return(nil, errors.New("model unavailable"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := &apitest.MockLibrary{}
			tt.setupMock(lib)

			router := gin.New()
			RegisterRoutes(router.Group("/query"), &types.Dependencies{Library: lib})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response types.QueryResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectedCount, response.Count)
				require.Len(t, response.Results, tt.expectedCount)
				assert.Equal(t, "Stay hungry, stay foolish.", response.Results[0].Text)
			}
			lib.AssertExpectations(t)
		})
	}
}

func TestGet_NoLibrary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/query"), &types.Dependencies{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/query?q=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
