package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/udayvalera/recipe-basket/config"
	httpDelivery "github.com/udayvalera/recipe-basket/internal/delivery/http"
	"github.com/udayvalera/recipe-basket/internal/domain"
	"github.com/udayvalera/recipe-basket/internal/infrastructure/recipeapi"
	"github.com/udayvalera/recipe-basket/internal/logging"
	"github.com/udayvalera/recipe-basket/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"version":     httpDelivery.Version,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	}).Info("Starting Recipe Basket service")

	// Enable debug mode in development environment
	debug := cfg.API.Debug || cfg.Server.Environment == "development"

	client := recipeapi.NewClient(recipeapi.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		UserAgent:         cfg.API.UserAgent,
		Headers:           cfg.API.Headers,
		RequestsPerSecond: cfg.RateLimit.OutboundRPS,
		Burst:             cfg.RateLimit.OutboundBurst,
		Debug:             debug,
		Logger:            logger,
	})
	logger.WithFields(logrus.Fields{
		"base_url": cfg.API.BaseURL,
		"timeout":  cfg.API.Timeout.String(),
		"debug":    debug,
	}).Info("Recipe backend configured")

	basket := usecase.NewBasketController(client, usecase.BasketControllerConfig{
		Logger: logger,
		OnWarning: func(w domain.Warning) {
			logger.WithField("unresolved_ids", w.UnresolvedIDs).Debug("basket warning delivered")
		},
	})

	handler := httpDelivery.NewHandler(client, basket, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
}
