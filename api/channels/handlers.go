package channels

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/feeds"
)

// List returns every channel
// @Summary List channels
// @Tags channels
// @Produce json
// @Success 200 {object} types.ChannelsResponse
// @Failure 500 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse "Channel repository not configured"
// @Router /api/v1/channels [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.ChannelRepo == nil {
			types.SendUnavailable(c, "Channel repository not configured")
			return
		}

		list, err := deps.ChannelRepo.ListChannels(c.Request.Context())
		if err != nil {
			slog.Error("failed to list channels", "error", err)
			types.SendInternalError(c, "Failed to list channels")
			return
		}

		c.JSON(http.StatusOK, types.ChannelsResponse{
			Status:   types.StatusOK,
			Count:    len(list),
			Channels: list,
		})
	}
}

// GetByID returns one channel
// @Summary Get channel by ID
// @Tags channels
// @Produce json
// @Param id path int true "Channel ID"
// @Success 200 {object} types.ChannelResponse
// @Failure 400 {object} types.ErrorResponse "Invalid id"
// @Failure 404 {object} types.ErrorResponse "Channel not found"
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/channels/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.ChannelRepo == nil {
			types.SendUnavailable(c, "Channel repository not configured")
			return
		}
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		channel, err := deps.ChannelRepo.GetChannelByID(c.Request.Context(), id)
		if err != nil {
			if models.IsNotFound(err) {
				types.SendNotFound(c, "Channel not found")
				return
			}
			slog.Error("failed to get channel", "channel_id", id, "error", err)
			types.SendInternalError(c, "Failed to get channel")
			return
		}

		c.JSON(http.StatusOK, types.ChannelResponse{Status: types.StatusOK, Channel: channel})
	}
}

// Add resolves a remote feed into a channel. It answers 201 when the
// channel was created and 200 when it already existed.
// @Summary Add a remote feed channel
// @Description Reads the feed and stores it as a channel. Adding a feed that is already known returns the existing channel.
// @Tags channels
// @Accept json
// @Produce json
// @Param request body types.AddChannelRequest true "Feed URL and optional language override"
// @Success 200 {object} types.ChannelResponse "Channel already existed"
// @Success 201 {object} types.ChannelResponse "Channel created"
// @Failure 400 {object} types.ErrorResponse "Invalid request body"
// @Failure 422 {object} types.ErrorResponse "Feed could not be read"
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/channels [post]
func Add(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Library == nil {
			types.SendUnavailable(c, "Library not configured")
			return
		}

		var req types.AddChannelRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		created, channel, err := deps.Library.AddChannel(c.Request.Context(), req.FeedURL, req.Language)
		if err != nil {
			if errors.Is(err, feeds.ErrUnreadableSource) {
				c.JSON(http.StatusUnprocessableEntity, types.ErrorResponse{
					Status:  types.StatusError,
					Error:   "Feed could not be read",
					Details: err.Error(),
				})
				return
			}
			slog.Error("failed to add channel", "feed_url", req.FeedURL, "error", err)
			types.SendInternalError(c, "Failed to add channel")
			return
		}

		code := http.StatusOK
		if created {
			code = http.StatusCreated
		}
		c.JSON(code, types.ChannelResponse{Status: types.StatusOK, Created: created, Channel: channel})
	}
}

// Delete removes a channel with its episodes, fragments and artifacts
// @Summary Delete channel
// @Tags channels
// @Param id path int true "Channel ID"
// @Success 204 "Channel deleted"
// @Failure 400 {object} types.ErrorResponse "Invalid id"
// @Failure 404 {object} types.ErrorResponse "Channel not found"
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/channels/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Library == nil {
			types.SendUnavailable(c, "Library not configured")
			return
		}
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		if err := deps.Library.DeleteChannel(c.Request.Context(), id); err != nil {
			if models.IsNotFound(err) {
				types.SendNotFound(c, "Channel not found")
				return
			}
			slog.Error("failed to delete channel", "channel_id", id, "error", err)
			types.SendInternalError(c, "Failed to delete channel")
			return
		}

		c.Status(http.StatusNoContent)
	}
}
