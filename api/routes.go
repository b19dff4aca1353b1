package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/killallgit/podscribe/api/channels"
	"github.com/killallgit/podscribe/api/episodes"
	"github.com/killallgit/podscribe/api/health"
	"github.com/killallgit/podscribe/api/jobs"
	"github.com/killallgit/podscribe/api/query"
	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/api/version"
	_ "github.com/killallgit/podscribe/docs/swagger"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, limiters *RateLimiters) error {
	// public routes, no rate limiting
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	v1 := engine.Group("/api/v1")

	// embedding a query is the expensive path
	queryGroup := v1.Group("/query")
	queryGroup.Use(limiters.Middleware("query", 5, 10))
	query.RegisterRoutes(queryGroup, deps)

	channelGroup := v1.Group("/channels")
	channelGroup.Use(limiters.Middleware("channels", 10, 20))
	channels.RegisterRoutes(channelGroup, deps)

	episodeGroup := v1.Group("/episodes")
	episodeGroup.Use(limiters.Middleware("episodes", 10, 20))
	episodes.RegisterRoutes(episodeGroup, deps)

	jobGroup := v1.Group("/jobs")
	jobGroup.Use(limiters.Middleware("jobs", 1, 2))
	jobs.RegisterRoutes(jobGroup, deps)

	return nil
}
