package query

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// RegisterRoutes registers query routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/query?q=...&k=...
	router.GET("", Get(deps))
}
