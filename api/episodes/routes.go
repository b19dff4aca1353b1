package episodes

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// RegisterRoutes registers episode routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/episodes?channel_id=&state=&page=&limit=
	router.GET("", List(deps))

	// GET /api/v1/episodes/:id
	router.GET("/:id", GetByID(deps))
}
