package jobs

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// RegisterRoutes registers batch job routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", Stats(deps))
	router.POST("/update", Update(deps))
	router.POST("/transcribe", Transcribe(deps))
	router.POST("/index", Index(deps))
}
