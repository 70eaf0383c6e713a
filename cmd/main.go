package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/imobireport/newsroom-backend/internal/clients/gemini"
	"github.com/imobireport/newsroom-backend/internal/clients/openai"
	"github.com/imobireport/newsroom-backend/internal/clients/rediscache"
	"github.com/imobireport/newsroom-backend/internal/db"
	"github.com/imobireport/newsroom-backend/internal/extractor"
	"github.com/imobireport/newsroom-backend/internal/gdocs"
	"github.com/imobireport/newsroom-backend/internal/handlers"
	"github.com/imobireport/newsroom-backend/internal/llm"
	"github.com/imobireport/newsroom-backend/internal/logger"
	"github.com/imobireport/newsroom-backend/internal/observability"
	"github.com/imobireport/newsroom-backend/internal/repos"
	"github.com/imobireport/newsroom-backend/internal/server"
	"github.com/imobireport/newsroom-backend/internal/services"
	"github.com/imobireport/newsroom-backend/internal/sessions"
	"github.com/imobireport/newsroom-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownTracing := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "newsroom-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTracing(shutdownCtx)
		}()
	}

	// Postgres
	var runRepo repos.NewsletterRunRepo
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed; runs will not be persisted", "error", err)
	} else {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
		runRepo = repos.NewNewsletterRunRepo(postgresService.GetDB(), log)
	}

	// Sessions for paywalled sources
	sessionsPath := utils.GetEnv("SESSIONS_CONFIG", "", log)
	sessionsCfg, err := sessions.LoadConfig(sessionsPath)
	if err != nil {
		log.Warn("Sessions config failed to load; using anonymous clients", "error", err)
		sessionsCfg = sessions.Config{}
	}
	requestTimeout := utils.GetEnvAsInt("REQUEST_TIMEOUT", 30, log)
	sessionManager := sessions.NewManager(sessionsCfg, time.Duration(requestTimeout)*time.Second, log)

	// Extraction cache
	var cache extractor.Cache
	if redisCache, err := rediscache.New(log); err != nil {
		log.Warn("Redis cache unavailable; extraction will not be cached", "error", err)
	} else {
		cache = redisCache
		defer redisCache.Close()
	}

	workers := utils.GetEnvAsInt("EXTRACT_WORKERS", 5, log)
	contentExtractor := extractor.New(sessionManager, cache, workers, log)

	// LLM providers
	var openaiProvider llm.OpenAIProvider
	if client, err := openai.NewClient(log); err != nil {
		log.Warn("OpenAI client unavailable", "error", err)
	} else {
		openaiProvider = client
	}
	var geminiProvider llm.GeminiProvider
	if client, err := gemini.NewClient(ctx, log); err != nil {
		log.Warn("Gemini client unavailable", "error", err)
	} else {
		geminiProvider = client
	}
	router := llm.NewRouter(openaiProvider, geminiProvider, log)

	// Google Docs publishing
	var publisher services.Publisher
	if pub, err := gdocs.NewPublisher(ctx, log); err != nil {
		log.Warn("Google Docs publisher unavailable", "error", err)
	} else {
		publisher = pub
	}

	// Service and HTTP surface
	newsletterService := services.NewNewsletterService(contentExtractor, router, publisher, runRepo, log)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterService, log)

	engine := server.NewRouter(server.RouterConfig{
		NewsletterHandler: newsletterHandler,
		Log:               log,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := engine.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
