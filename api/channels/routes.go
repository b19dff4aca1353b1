package channels

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/podscribe/api/types"
)

// RegisterRoutes registers channel routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", List(deps))
	router.POST("", Add(deps))
	router.GET("/:id", GetByID(deps))
	router.DELETE("/:id", Delete(deps))
}
