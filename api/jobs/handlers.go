package jobs

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/services/jobs"
	"github.com/killallgit/podscribe/internal/services/library"
)

const retryAfterSeconds = 30

// Stats returns the task queue counters
// @Summary Job queue counters
// @Tags jobs
// @Produce json
// @Success 200 {object} types.JobStatsResponse
// @Failure 503 {object} types.ErrorResponse "Job pool not configured"
// @Router /api/v1/jobs [get]
func Stats(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Jobs == nil {
			types.SendUnavailable(c, "Job pool not configured")
			return
		}
		c.JSON(http.StatusOK, types.JobStatsResponse{Status: types.StatusOK, Jobs: deps.Jobs.Stats()})
	}
}

// Update schedules an update of every channel
// @Summary Update all channels
// @Description Queues one job that reads every channel and stores new episodes.
// @Tags jobs
// @Produce json
// @Success 202 {object} types.JobResponse "Job queued"
// @Failure 500 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse "Queue full or shutting down, see Retry-After"
// @Router /api/v1/jobs/update [post]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return enqueue(deps, "update-all-channels", func(lib types.LibraryService) error {
		return lib.EnqueueUpdateAll()
	})
}

// Index schedules indexing of every transcribed episode
// @Summary Index transcribed episodes
// @Description Queues one job that embeds the fragments of every transcribed episode.
// @Tags jobs
// @Produce json
// @Success 202 {object} types.JobResponse "Job queued"
// @Failure 500 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse "Queue full or shutting down, see Retry-After"
// @Router /api/v1/jobs/index [post]
func Index(deps *types.Dependencies) gin.HandlerFunc {
	return enqueue(deps, "index-pending", func(lib types.LibraryService) error {
		return lib.EnqueueIndexPending()
	})
}

// Transcribe schedules transcription of pending episodes. The body is
// optional; without it the configured window applies.
// @Summary Transcribe pending episodes
// @Description Queues one transcription job per new episode inside the window. Episodes already queued are skipped.
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body types.TranscribeRequest false "Window in days, channel and ordering"
// @Success 202 {object} types.JobResponse "Scheduling started"
// @Failure 400 {object} types.ErrorResponse "Invalid request body"
// @Failure 409 {object} types.ErrorResponse "Scheduling already in progress"
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/jobs/transcribe [post]
func Transcribe(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Library == nil {
			types.SendUnavailable(c, "Library not configured")
			return
		}

		var req types.TranscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			types.SendBadRequest(c, "Invalid request body")
			return
		}

		opts := library.TranscribeOptions{
			WindowDays: deps.WindowDays,
			ChannelID:  req.ChannelID,
			Randomize:  !req.NoShuffle,
		}
		if req.Days != nil {
			if *req.Days < 0 {
				types.SendBadRequest(c, "days must not be negative")
				return
			}
			opts.WindowDays = *req.Days
		}

		if err := deps.Library.ScheduleTranscribePending(opts); err != nil {
			if errors.Is(err, library.ErrScheduleInProgress) {
				types.SendConflict(c, "Transcription scheduling already in progress")
				return
			}
			slog.Error("failed to schedule transcriptions", "error", err)
			types.SendInternalError(c, "Failed to schedule transcriptions")
			return
		}
		types.SendAccepted(c, "transcribe-pending")
	}
}

func enqueue(deps *types.Dependencies, name string, submit func(types.LibraryService) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Library == nil {
			types.SendUnavailable(c, "Library not configured")
			return
		}

		if err := submit(deps.Library); err != nil {
			switch {
			case errors.Is(err, jobs.ErrPoolClosed):
				types.SendUnavailable(c, "Job pool is shutting down")
				return
			case errors.Is(err, jobs.ErrQueueFull):
				types.SendBusy(c, "Job queue is full", retryAfterSeconds)
				return
			}
			slog.Error("failed to enqueue job", "job", name, "error", err)
			types.SendInternalError(c, "Failed to enqueue job")
			return
		}

		types.SendAccepted(c, name)
	}
}
