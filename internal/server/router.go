package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/imobireport/newsroom-backend/internal/handlers"
	"github.com/imobireport/newsroom-backend/internal/logger"
	"github.com/imobireport/newsroom-backend/internal/middleware"
	"github.com/imobireport/newsroom-backend/internal/utils"
)

type RouterConfig struct {
	NewsletterHandler *handlers.NewsletterHandler
	Log               *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := strings.Split(utils.GetEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5174", cfg.Log), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware("newsroom-backend"))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/models", cfg.NewsletterHandler.ListModels)
		api.POST("/newsletters/generate", cfg.NewsletterHandler.Generate)
		api.POST("/newsletters/compose", cfg.NewsletterHandler.Compose)
		api.GET("/newsletters/runs", cfg.NewsletterHandler.ListRuns)
		api.GET("/newsletters/runs/:id", cfg.NewsletterHandler.GetRun)
	}

	return router
}
