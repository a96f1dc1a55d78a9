package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trailguide-backend/internal/shared/middleware"
	"trailguide-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupReviewRoutes(v1, c)
		setupGuideRoutes(v1, c)
		setupBookingReviewRoutes(v1, c)
		setupAdminReviewRoutes(v1, c)
	}

	return router
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Public review routes: only published content appears here
	reviews := v1.Group("/reviews")
	{
		reviews.GET("", c.ReviewHandler.ListPublished)
	}

	// Participant review routes
	userReviews := v1.Group("/reviews")
	userReviews.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		userReviews.GET("/:id", c.ReviewHandler.GetReview)
		userReviews.POST("/:id/submit", c.ReviewHandler.Submit)
		userReviews.POST("/:id/response", c.ReviewHandler.Respond)
	}
}

// ========================================
// GUIDE ROUTES
// ========================================
func setupGuideRoutes(v1 *gin.RouterGroup, c *container.Container) {
	guides := v1.Group("/guides")
	{
		guides.GET("/:id/statistics", c.ReviewHandler.GetGuideStatistics)
	}
}

// ========================================
// BOOKING REVIEW ROUTES
// ========================================
func setupBookingReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	bookings := v1.Group("/bookings")
	bookings.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		bookings.POST("/:id/reviews", c.ReviewHandler.GenerateForBooking)
		bookings.GET("/:id/reviews", c.ReviewHandler.ListByBooking)
	}
}

// ========================================
// ADMIN REVIEW ROUTES
// ========================================
func setupAdminReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	adminReviews := v1.Group("/admin/reviews")
	adminReviews.Use(
		middleware.AuthMiddleware(c.Config.JWT.Secret),
		middleware.AdminMiddleware(),
	)
	{
		adminReviews.GET("", c.ReviewHandler.AdminList)
		adminReviews.GET("/:id", c.ReviewHandler.AdminGetReview)
	}

	adminStats := v1.Group("/admin/statistics")
	adminStats.Use(
		middleware.AuthMiddleware(c.Config.JWT.Secret),
		middleware.AdminMiddleware(),
	)
	{
		adminStats.GET("/pending-reviews", c.ReviewHandler.AdminPendingPairs)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
