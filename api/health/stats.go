package health

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// Stats reports channel, episode and fragment counts
func Stats(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Library == nil {
			types.SendUnavailable(c, "Library not configured")
			return
		}

		stats, err := deps.Library.Stats(c.Request.Context())
		if err != nil {
			slog.Error("failed to collect stats", "error", err)
			types.SendInternalError(c, "Failed to collect stats")
			return
		}

		response := gin.H{"status": types.StatusOK, "library": stats}
		if deps.Jobs != nil {
			response["jobs"] = deps.Jobs.Stats()
		}
		c.JSON(http.StatusOK, response)
	}
}
