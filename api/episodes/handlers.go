package episodes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/episodes"
)

const (
	defaultLimit = 50
	maxLimit     = 1000
)

// List returns episodes, optionally restricted to a channel and a state.
// A channel without a state filter is paged.
// @Summary List episodes
// @Description Lists episodes filtered by channel and processing state. Filtering by channel alone returns a page with the total count.
// @Tags episodes
// @Produce json
// @Param channel_id query int false "Channel ID"
// @Param state query string false "Processing state" Enums(new, transcribed, embedded)
// @Param page query int false "Page number, channel listing only" default(1) minimum(1)
// @Param limit query int false "Maximum episodes to return" default(50) minimum(1) maximum(1000)
// @Success 200 {object} types.EpisodesResponse
// @Failure 400 {object} types.ErrorResponse "Invalid channel_id or state"
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/episodes [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.EpisodeRepo == nil {
			types.SendUnavailable(c, "Episode repository not configured")
			return
		}

		channelID, ok := types.ParseUintQuery(c, "channel_id")
		if !ok {
			return
		}

		var state models.EpisodeState
		if raw := c.Query("state"); raw != "" {
			parsed, err := models.ParseEpisodeState(raw)
			if err != nil {
				types.SendBadRequest(c, "state must be one of new, transcribed, embedded")
				return
			}
			state = parsed
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
		if limit < 1 || limit > maxLimit {
			limit = defaultLimit
		}
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		ctx := c.Request.Context()
		if channelID != nil && state == "" {
			list, total, err := deps.EpisodeRepo.GetEpisodesByChannelID(ctx, *channelID, page, limit)
			if err != nil {
				slog.Error("failed to list episodes", "channel_id", *channelID, "error", err)
				types.SendInternalError(c, "Failed to list episodes")
				return
			}
			c.JSON(http.StatusOK, types.EpisodesResponse{
				Status:   types.StatusOK,
				Count:    len(list),
				Total:    total,
				Page:     page,
				Episodes: list,
			})
			return
		}

		list, err := deps.EpisodeRepo.FindEpisodes(ctx, episodes.Filter{
			State:     state,
			ChannelID: channelID,
			Limit:     limit,
		})
		if err != nil {
			slog.Error("failed to find episodes", "state", state, "error", err)
			types.SendInternalError(c, "Failed to list episodes")
			return
		}
		c.JSON(http.StatusOK, types.EpisodesResponse{
			Status:   types.StatusOK,
			Count:    len(list),
			Episodes: list,
		})
	}
}

// GetByID returns one episode
// @Summary Get episode by ID
// @Tags episodes
// @Produce json
// @Param id path int true "Episode ID"
// @Success 200 {object} types.EpisodeResponse
// @Failure 400 {object} types.ErrorResponse "Invalid id"
// @Failure 404 {object} types.ErrorResponse "Episode not found"
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/episodes/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.EpisodeRepo == nil {
			types.SendUnavailable(c, "Episode repository not configured")
			return
		}
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		episode, err := deps.EpisodeRepo.GetEpisodeByID(c.Request.Context(), id)
		if err != nil {
			if models.IsNotFound(err) {
				types.SendNotFound(c, "Episode not found")
				return
			}
			slog.Error("failed to get episode", "episode_id", id, "error", err)
			types.SendInternalError(c, "Failed to get episode")
			return
		}

		c.JSON(http.StatusOK, types.EpisodeResponse{Status: types.StatusOK, Episode: episode})
	}
}
