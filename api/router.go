// api/router.go
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/handin-dev/handin-backend/api/handlers"
	"github.com/handin-dev/handin-backend/api/middleware"
	"github.com/handin-dev/handin-backend/config"
	"github.com/handin-dev/handin-backend/internal/storage"
)

// SetupRouter initializes the Gin router and sets up all routes.
// Stores are taken as interfaces so tests can mount the in-memory
// implementations behind the exact same routing table.
func SetupRouter(users storage.UserStore, assignments storage.AssignmentStore, db handlers.Pinger, cfg *config.Config) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default() // Includes Logger and Recovery

	router.Use(middleware.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	router.Use(middleware.ErrorHandler())

	// Credential endpoints share one limiter so password guessing across
	// register and login counts against the same budget.
	ratelimiter := middleware.NewRateLimiter(20, time.Minute)
	limit := middleware.RateLimitMiddleware(ratelimiter)

	// Initialize Handlers
	userHandler := handlers.NewUserHandler(users, assignments, cfg)
	adminHandler := handlers.NewAdminHandler(users, assignments, cfg)
	healthHandler := handlers.NewHealthHandler(db)

	// --- Public Routes ---
	router.GET("/healthz", healthHandler.Healthz)
	registerDocs(router)

	userRoutes := router.Group("/user")
	{
		userRoutes.POST("/register", limit, userHandler.Register)
		userRoutes.POST("/login", limit, userHandler.Login)
	}

	adminRoutes := router.Group("/admin")
	{
		adminRoutes.POST("/register", limit, adminHandler.Register)
		adminRoutes.POST("/login", limit, adminHandler.Login)
	}

	// --- Protected Routes ---
	authed := middleware.AuthMiddleware(users, cfg)

	userProtected := userRoutes.Group("")
	userProtected.Use(authed)
	{
		userProtected.POST("/upload", userHandler.Upload)
		userProtected.GET("/admins", userHandler.Admins)
	}

	adminProtected := adminRoutes.Group("/assignments")
	adminProtected.Use(authed, middleware.RequireAdmin())
	{
		adminProtected.GET("", adminHandler.Assignments)
		adminProtected.POST("/:id/accept", adminHandler.Accept)
		adminProtected.POST("/:id/reject", adminHandler.Reject)
	}

	return router
}
