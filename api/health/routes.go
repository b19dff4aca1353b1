package health

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// RegisterRoutes registers health check routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies) {
	engine.GET("/health", Get(deps))
	engine.GET("/api/v1/stats", Stats(deps))
}
