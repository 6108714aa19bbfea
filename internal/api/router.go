package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// NewRouter assembles the gin engine: correlation and logging middleware,
// the CORS policy, and every route.
func NewRouter(handlers *Handlers, allowedOrigins []string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(attachRequestID())
	router.Use(requestLogger(logger))
	router.Use(corsMiddleware(allowedOrigins))

	router.GET("/healthcheck", handlers.Healthcheck)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/upload", handlers.Upload)
		apiGroup.POST("/cleanup", handlers.Cleanup)
		apiGroup.GET("/search/phrases", handlers.SearchPhrases)
		apiGroup.GET("/random-line", handlers.RandomLine)
		apiGroup.GET("/transcripts/:season/:episode", handlers.Transcript)
		apiGroup.GET("/seasons", handlers.Seasons)
		apiGroup.GET("/speakers", handlers.Speakers)
		apiGroup.GET("/seasons/:id/episodes", handlers.SeasonEpisodes)
		apiGroup.GET("/episodes/:id", handlers.Episode)
	}

	return router
}
