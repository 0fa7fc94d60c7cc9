package api

import (
	"github.com/RishiKendai/overlap/internal/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(cfg *config.Config, handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	// Middleware
	router.Use(ErrorHandlerMiddleware())

	// Health endpoint (no auth)
	router.GET("/health", handler.Health)

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/documents", handler.CreateDocument)
		api.POST("/compute", handler.Compute)
		api.GET("/reports/:corpusId", handler.GetReport)
		api.GET("/status/:corpusId", handler.GetStatus)
	}

	return router
}
