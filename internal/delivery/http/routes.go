package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/udayvalera/recipe-basket/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger logrus.FieldLogger) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	v1.Use(NewIPRateLimiter(cfg.RateLimit.PerIP).Middleware())
	{
		ingredients := v1.Group("/ingredients")
		{
			ingredients.GET("", handler.ListIngredients)
			ingredients.POST("", handler.AddIngredient)
		}

		basket := v1.Group("/basket")
		{
			basket.POST("/generate", handler.GenerateRecipe)
			basket.GET("/status", handler.BasketStatus)
		}

		v1.GET("/recipes/history", handler.RecipeHistory)
	}

	return router
}
