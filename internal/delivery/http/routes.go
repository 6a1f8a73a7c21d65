package http

import (
	"github.com/gin-gonic/gin"
	"github.com/switchtoindia/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("/search", handler.SearchProducts)
			products.POST("/alternatives", handler.SelectAlternatives)
		}

		basket := v1.Group("/basket")
		{
			basket.GET("", handler.GetBasket)
			basket.DELETE("", handler.ClearBasket)
			basket.GET("/impact", handler.GetImpact)
			basket.POST("/items", handler.AddBasketItem)
			basket.POST("/items/:index/quantity", handler.ChangeQuantity)
			basket.PUT("/items/:index/price", handler.EditPrice)
			basket.DELETE("/items/:index", handler.RemoveBasketItem)
		}
	}

	return router
}
