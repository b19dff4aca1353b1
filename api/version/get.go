package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// Get handles version requests
func Get(deps *types.Dependencies) gin.HandlerFunc {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "podscribe",
			"version":     version,
			"description": "Semantic search over transcribed podcasts",
			"status":      "running",
		})
	}
}
