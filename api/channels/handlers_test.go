package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/podscribe/api/apitest"
	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/channels"
	"github.com/killallgit/podscribe/internal/services/feeds"
)

func setupRouter(t *testing.T) (*gin.Engine, *apitest.MockLibrary, *channels.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := channels.NewRepository(apitest.NewDB(t).DB)
	lib := &apitest.MockLibrary{}

	router := gin.New()
	RegisterRoutes(router.Group("/channels"), &types.Dependencies{Library: lib, ChannelRepo: repo})
	return router, lib, repo
}

func TestList(t *testing.T) {
	router, _, repo := setupRouter(t)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		require.NoError(t, repo.CreateChannel(ctx, &models.Channel{
			Kind:    models.ChannelKindRemote,
			Locator: fmt.Sprintf("https://example.com/%d.xml", i),
			Title:   fmt.Sprintf("Channel %d", i),
		}))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/channels", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response types.ChannelsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "Channel 1", response.Channels[0].Title)
}

func TestGetByID(t *testing.T) {
	router, _, repo := setupRouter(t)
	ch := &models.Channel{Kind: models.ChannelKindLocal, Locator: "talks", Title: "Talks"}
	require.NoError(t, repo.CreateChannel(context.Background(), ch))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{"existing", fmt.Sprintf("/channels/%d", ch.ID), http.StatusOK},
		{"missing", "/channels/999", http.StatusNotFound},
		{"invalid id", "/channels/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdd(t *testing.T) {
	channel := &models.Channel{ID: 7, Kind: models.ChannelKindRemote, Locator: "https://example.com/feed.xml", Title: "Feed"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *apitest.MockLibrary)
		expectedStatus int
	}{
		{
			name: "created",
			body: `{"feed_url":"https://example.com/feed.xml","language":"en"}`,
			setupMock: func(m *apitest.MockLibrary) {
				m.On("AddChannel", mock.Anything, "https://example.com/feed.xml", "en").Return(true, channel, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "already known",
			body: `{"feed_url":"https://example.com/feed.xml"}`,
			setupMock: func(m *apitest.MockLibrary) {
				m.On("AddChannel", mock.Anything, "https://example.com/feed.xml", "").Return(false, channel, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unreadable feed",
			body: `{"feed_url":"https://example.com/broken.xml"}`,
			setupMock: func(m *apitest.MockLibrary) {
				m.On("AddChannel", mock.Anything, "https://example.com/broken.xml", "").
					Return(false, nil, fmt.Errorf("%w: broken", feeds.ErrUnreadableSource))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing feed url",
			body:           `{"language":"en"}`,
			setupMock:      func(m *apitest.MockLibrary) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, lib, _ := setupRouter(t)
			tt.setupMock(lib)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/channels", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if w.Code == http.StatusCreated {
				var response types.ChannelResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.True(t, response.Created)
				assert.Equal(t, uint(7), response.Channel.ID)
			}
			lib.AssertExpectations(t)
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(m *apitest.MockLibrary)
		expectedStatus int
	}{
		{
			name: "deleted",
			path: "/channels/3",
			setupMock: func(m *apitest.MockLibrary) {
				m.On("DeleteChannel", mock.Anything, uint(3)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "missing",
			path: "/channels/4",
			setupMock: func(m *apitest.MockLibrary) {
				m.On("DeleteChannel", mock.Anything, uint(4)).Return(models.NewNotFoundError("channel", 4))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid id",
			path:           "/channels/x",
			setupMock:      func(m *apitest.MockLibrary) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, lib, _ := setupRouter(t)
			tt.setupMock(lib)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			lib.AssertExpectations(t)
		})
	}
}
