package query

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/services/library"
)

// Get answers GET /api/v1/query?q=&k= with the most similar fragments
// @Summary Semantic search over transcripts
// @Description Embeds the query text and returns the k transcript fragments closest to it, best first.
// @Description Each result carries the fragment text, its time span and the episode and channel it came from.
// @Tags query
// @Produce json
// @Param q query string true "Free text to search for"
// @Param k query int false "Number of fragments to return, clamped to the configured maximum" minimum(1)
// @Success 200 {object} types.QueryResponse "Ranked fragments"
// @Failure 400 {object} types.ErrorResponse "Missing query or invalid k"
// @Failure 500 {object} types.ErrorResponse "Embedding or index failure"
// @Failure 503 {object} types.ErrorResponse "Library not configured"
// @Router /api/v1/query [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Library == nil {
			types.SendUnavailable(c, "Library not configured")
			return
		}

		text := c.Query("q")
		if text == "" {
			types.SendBadRequest(c, "Query parameter q is required")
			return
		}

		k := 0
		if raw := c.Query("k"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				types.SendBadRequest(c, "k must be a positive integer")
				return
			}
			k = parsed
		}

		results, err := deps.Library.Query(c.Request.Context(), text, k)
		if errors.Is(err, library.ErrEmptyQuery) {
			types.SendBadRequest(c, "Query parameter q is required")
			return
		}
		if err != nil {
			slog.Error("query failed", "query", text, "error", err)
			types.SendInternalError(c, "Failed to run query")
			return
		}

		c.JSON(http.StatusOK, types.QueryResponse{
			Status:  types.StatusOK,
			Query:   text,
			K:       k,
			Count:   len(results),
			Results: results,
		})
	}
}
