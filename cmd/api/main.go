package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"flavorforge/internal/api"
	"flavorforge/internal/config"
	"flavorforge/internal/logger"
	"flavorforge/internal/platform/gemini"
	"flavorforge/internal/platform/localllm"
	"flavorforge/internal/recipe"
)

func main() {
	ctx := context.Background()

	log := logger.L()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.ValidateAPI(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.WithError(err).Fatal("error creating gemini client")
	}
	defer geminiClient.Close()

	localGenerator := newLocalGenerator(cfg)
	if localGenerator == nil {
		log.Info("LOCAL_LLM_URL not set, local generation disabled")
	}

	// The handler treats a nil store as "no cache".
	var store api.RecipeStore
	if cfg.DatabaseURL != "" {
		dbStore, err := recipe.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("error creating postgres store")
		}
		defer dbStore.Close()
		store = dbStore
	} else {
		log.Warn("DATABASE_URL not set, recipe cache disabled")
	}

	var limiter api.Limiter
	if cfg.RedisURL != "" {
		redisClient, err := api.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("error connecting to redis")
		}
		defer redisClient.Close()
		limiter = api.NewGenerationRateLimiter(redisClient, cfg.RateLimitPerHour)
	}

	handler := api.NewHandler(geminiClient, localGenerator, store, cfg.RequestTimeout)
	r := newRouter(handler, limiter, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
		// Generation can take as long as the request timeout.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.APIPort).Info("starting recipe generation service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exited")
}

// newLocalGenerator returns the local LLM client, or a nil interface when no
// local endpoint is configured so the handler answers 501.
func newLocalGenerator(cfg *config.Config) api.RecipeGenerator {
	if cfg.LocalLLMURL == "" {
		return nil
	}
	return localllm.NewClient(cfg.LocalLLMURL, cfg.LocalLLMModel)
}

// newRouter wires the generation service routes. limiter may be nil.
func newRouter(handler *api.Handler, limiter api.Limiter, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	r.Use(logger.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	generate := r.Group("/")
	if limiter != nil {
		generate.Use(api.RateLimit(limiter))
	}
	generate.POST("/generate-recipe", handler.GenerateRecipe)
	generate.POST("/generate-recipe-local", handler.GenerateRecipeLocal)

	r.GET("/recipes", handler.GetRecipes)
	r.GET("/recipes/:hash", handler.GetRecipe)
	r.GET("/health", handler.Health)
	return r
}
