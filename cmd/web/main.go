package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flavorforge/internal/client"
	"flavorforge/internal/config"
	"flavorforge/internal/controller"
	"flavorforge/internal/logger"
	"flavorforge/internal/web"
)

func main() {
	log := logger.L()
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.ValidateWeb(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// The HTTP client carries the request timeout, so the controller adds none.
	recipeClient := client.New(cfg.APIBaseURL, cfg.RequestTimeout)
	handler := web.NewHandler(recipeClient, controller.Options{Logger: log})

	r := gin.Default()
	r.Use(logger.Middleware())
	if err := handler.Register(r); err != nil {
		log.WithError(err).Fatal("failed to set up routes")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.WebPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":         cfg.WebPort,
			"api_base_url": cfg.APIBaseURL,
		}).Info("starting web front-end")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exited")
}
