package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliptube/cliptube/pkg/auth"
	"github.com/cliptube/cliptube/pkg/catalog"
	"github.com/cliptube/cliptube/pkg/config"
	"github.com/cliptube/cliptube/pkg/controller"
	"github.com/cliptube/cliptube/pkg/middleware/logging"
	metricsmw "github.com/cliptube/cliptube/pkg/middleware/metrics"
	"github.com/cliptube/cliptube/pkg/middleware/ratelimit"
	"github.com/cliptube/cliptube/pkg/middleware/recovery"
	"github.com/cliptube/cliptube/pkg/middleware/requestid"
	"github.com/cliptube/cliptube/pkg/observability/logger"
	"github.com/cliptube/cliptube/pkg/observability/metrics"
	"github.com/cliptube/cliptube/pkg/repository/document"
)

// Deps carries everything the router needs.
type Deps struct {
	Config    *config.Config
	Logger    logger.Logger
	Store     document.Store
	Validator auth.Validator
	Metrics   *metrics.Registry
}

// BuildRouter assembles the middleware stack and the API routes.
// Read endpoints are public; every mutation requires an authenticated
// requester.
func BuildRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(requestid.RequestID())
	router.Use(logging.RequestLogger(deps.Logger))
	router.Use(recovery.Recovery(deps.Logger))
	router.Use(metricsmw.Metrics())
	if deps.Config.RateLimit.Enabled {
		limiter := ratelimit.NewTokenBucketLimiter(deps.Config.RateLimit.RPS, deps.Config.RateLimit.Burst)
		router.Use(ratelimit.RateLimit(limiter, ratelimit.Config{}))
	}

	router.GET("/healthz", healthzHandler(deps.Store))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	videos := controller.NewVideoController(catalog.NewVideoService(deps.Store, deps.Logger))
	comments := controller.NewCommentController(catalog.NewCommentService(deps.Store, deps.Logger))
	tweets := controller.NewTweetController(catalog.NewTweetService(deps.Store, deps.Logger))
	playlists := controller.NewPlaylistController(catalog.NewPlaylistService(deps.Store, deps.Logger))

	authed := auth.Middleware(deps.Validator)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/videos", videos.ListFeed)
		v1.POST("/videos", authed, videos.Publish)
		v1.GET("/videos/:videoId", videos.Get)
		v1.PATCH("/videos/:videoId", authed, videos.Update)
		v1.DELETE("/videos/:videoId", authed, videos.Delete)
		v1.PATCH("/videos/:videoId/toggle-publish", authed, videos.TogglePublish)

		v1.GET("/videos/:videoId/comments", comments.ListForVideo)
		v1.POST("/videos/:videoId/comments", authed, comments.Add)
		v1.PATCH("/comments/:commentId", authed, comments.Update)
		v1.DELETE("/comments/:commentId", authed, comments.Delete)

		v1.POST("/tweets", authed, tweets.Create)
		v1.GET("/tweets/user/:userId", tweets.ListByUser)
		v1.PATCH("/tweets/:tweetId", authed, tweets.Update)
		v1.DELETE("/tweets/:tweetId", authed, tweets.Delete)

		v1.POST("/playlists", authed, playlists.Create)
		v1.GET("/playlists/:playlistId", playlists.Get)
		v1.GET("/playlists/user/:userId", playlists.ListByUser)
		v1.PATCH("/playlists/:playlistId", authed, playlists.Update)
		v1.DELETE("/playlists/:playlistId", authed, playlists.Delete)
		v1.POST("/playlists/:playlistId/videos/:videoId", authed, playlists.AddVideo)
		v1.DELETE("/playlists/:playlistId/videos/:videoId", authed, playlists.RemoveVideo)
	}

	return router
}

func healthzHandler(store document.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
