package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/exam-simulator/internal/config"
	"github.com/stemsi/exam-simulator/internal/handler"
	"github.com/stemsi/exam-simulator/internal/middleware"
	"github.com/stemsi/exam-simulator/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Question *handler.QuestionHandler
	Session  *handler.SessionHandler
	WS       *handler.WSHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	router.GET("/", handlers.System.Banner)
	router.GET("/health", middleware.CacheControl(0), handlers.System.Health)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)

	// ─── 1. Question sampling (original wire contract) ─────────────────
	router.POST("/api/questions", limiter.Middleware(), handlers.Question.SampleQuestions)

	// ─── 2. Practice sessions ──────────────────────────────────────────
	sessions := router.Group("/api/v1/sessions")
	sessions.Use(middleware.CacheControl(0))
	{
		sessions.POST("", limiter.Middleware(), handlers.Session.StartSession)
		sessions.GET("/:id", handlers.Session.GetSession)
		sessions.GET("/:id/summary", handlers.Session.GetSummary)
		sessions.POST("/:id/select", handlers.Session.SelectOption)
		sessions.POST("/:id/submit", handlers.Session.SubmitAnswer)
		sessions.POST("/:id/advance", handlers.Session.AdvanceQuestion)
		sessions.DELETE("/:id", handlers.Session.AbandonSession)
	}

	// ─── 3. WebSocket stream ───────────────────────────────────────────
	router.GET("/ws/v1/sessions/:id/stream", handlers.WS.SessionStream)

	return router
}
