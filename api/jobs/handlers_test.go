package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/podscribe/api/apitest"
	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/services/jobs"
	"github.com/killallgit/podscribe/internal/services/library"
)

type staticStats jobs.Stats

func (s staticStats) Stats() jobs.Stats { return jobs.Stats(s) }

func setupRouter(lib *apitest.MockLibrary) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/jobs"), &types.Dependencies{
		Library:    lib,
		Jobs:       staticStats{Submitted: 3, Succeeded: 2, Failed: 1},
		WindowDays: 7,
	})
	return router
}

func TestEnqueueBatch(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		method         string
		err            error
		expectedStatus int
	}{
		{"update accepted", "/jobs/update", "EnqueueUpdateAll", nil, http.StatusAccepted},
		{"index accepted", "/jobs/index", "EnqueueIndexPending", nil, http.StatusAccepted},
		{"pool closed", "/jobs/update", "EnqueueUpdateAll", jobs.ErrPoolClosed, http.StatusServiceUnavailable},
		{"queue full", "/jobs/index", "EnqueueIndexPending", fmt.Errorf("%w: job index-pending", jobs.ErrQueueFull), http.StatusServiceUnavailable},
		{"enqueue failure", "/jobs/index", "EnqueueIndexPending", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := &apitest.MockLibrary{}
			lib.On(tt.method).Return(tt.err)

			w := httptest.NewRecorder()
			setupRouter(lib).ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			lib.AssertExpectations(t)
		})
	}
}

// queueLibrary submits updates to a real pool
type queueLibrary struct {
	*apitest.MockLibrary
	queue jobs.Queue
}

func (l *queueLibrary) EnqueueUpdateAll() error {
	return l.queue.TryEnqueue("update-all-channels", func(context.Context) error { return nil }, 0)
}

func TestEnqueueBatch_SaturatedPool(t *testing.T) {
	pool, err := jobs.NewPool(context.Background(), 1, jobs.WithBacklog(1))
	require.NoError(t, err)
	t.Cleanup(pool.Release)

	release := make(chan struct{})
	started := make(chan struct{})
	hold := func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}
	require.NoError(t, pool.TryEnqueue("hold", hold, 0))
	<-started
	require.NoError(t, pool.TryEnqueue("queued", hold, 0))
	require.Eventually(t, func() bool { return pool.Stats().Queued == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, pool.TryEnqueue("backlog", hold, 0))
	defer close(release)

	lib := &queueLibrary{MockLibrary: &apitest.MockLibrary{}, queue: pool}

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		w := httptest.NewRecorder()
		gin.SetMode(gin.TestMode)
		router := gin.New()
		RegisterRoutes(router.Group("/jobs"), &types.Dependencies{Library: lib})
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/update", nil))
		done <- w
	}()

	select {
	case w := <-done:
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "Job queue is full")
	case <-time.After(time.Second):
		t.Fatal("update request blocked on a saturated pool")
	}
}

func TestTranscribe(t *testing.T) {
	channelID := uint(4)
	tests := []struct {
		name           string
		body           string
		want           *library.TranscribeOptions
		expectedStatus int
	}{
		{"defaults", "", &library.TranscribeOptions{WindowDays: 7, Randomize: true}, http.StatusAccepted},
		{"explicit", `{"days":0,"channel_id":4,"no_shuffle":true}`, &library.TranscribeOptions{ChannelID: &channelID}, http.StatusAccepted},
		{"negative days", `{"days":-1}`, nil, http.StatusBadRequest},
		{"malformed", `{"days":`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := &apitest.MockLibrary{}
			if tt.want != nil {
				lib.On("ScheduleTranscribePending", *tt.want).Return(nil)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/jobs/transcribe", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			setupRouter(lib).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			lib.AssertExpectations(t)
		})
	}
}

func TestTranscribe_ScheduleInProgress(t *testing.T) {
	lib := &apitest.MockLibrary{}
	lib.On("ScheduleTranscribePending", library.TranscribeOptions{WindowDays: 7, Randomize: true}).
		Return(library.ErrScheduleInProgress)

	w := httptest.NewRecorder()
	setupRouter(lib).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/jobs/transcribe", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
	lib.AssertExpectations(t)
}

func TestStats(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter(&apitest.MockLibrary{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/jobs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Jobs jobs.Stats `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(3), response.Jobs.Submitted)
	assert.Equal(t, int64(1), response.Jobs.Failed)
}
