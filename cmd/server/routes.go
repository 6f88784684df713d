package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rahasiadapur/backend/internal/config"
	"github.com/rahasiadapur/backend/internal/handlers"
	"github.com/rahasiadapur/backend/internal/middleware"
	"github.com/rahasiadapur/backend/internal/models"
	"github.com/rahasiadapur/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.CORS.ClientURL))

	// Credential endpoints get a much tighter bucket than the rest of the API
	authLimiter := middleware.NewRateLimiter(0.2, 10)
	apiLimiter := middleware.NewRateLimiter(2, 100)

	r.GET("/health", handlers.Health)

	api := r.Group("/api", apiLimiter.Middleware())

	auth := api.Group("/auth")
	{
		limited := auth.Group("", authLimiter.Middleware())
		limited.POST("/register", svc.authHandler.Register)
		limited.POST("/login", svc.authHandler.Login)
		limited.POST("/admin/login", svc.authHandler.AdminLogin)

		auth.POST("/refresh-token", svc.authHandler.RefreshToken)
		auth.POST("/logout", svc.authHandler.Logout)

		protected := auth.Group("", middleware.AuthRequired(svc.codec))
		protected.POST("/logout-all", svc.authHandler.LogoutAll)
		protected.GET("/profile", svc.authHandler.GetProfile)
		protected.PUT("/profile", svc.authHandler.UpdateProfile)
		protected.PUT("/change-password", svc.authHandler.ChangePassword)
	}

	recipe := api.Group("/recipe", middleware.AuthRequired(svc.codec))
	{
		recipe.GET("", svc.recipeHandler.List)
		recipe.GET("/:id", svc.recipeHandler.Get)

		admin := recipe.Group("", middleware.RoleRequired(models.RoleAdmin))
		admin.POST("", svc.recipeHandler.Create)
		admin.PUT("/:id", svc.recipeHandler.Update)
		admin.DELETE("/:id", svc.recipeHandler.Delete)
	}

	tips := api.Group("/tips")
	{
		tips.GET("", svc.tipHandler.List)
		tips.GET("/trending", svc.tipHandler.Trending)
		tips.GET("/:id", svc.tipHandler.Get)

		tips.POST("/:id/like", middleware.AuthRequired(svc.codec), svc.tipHandler.ToggleLike)

		admin := tips.Group("", middleware.AuthRequired(svc.codec), middleware.RoleRequired(models.RoleAdmin))
		admin.POST("", svc.tipHandler.Create)
		admin.PUT("/:id", svc.tipHandler.Update)
		admin.DELETE("/:id", svc.tipHandler.Delete)
	}

	adminOnly := api.Group("", middleware.AuthRequired(svc.codec), middleware.RoleRequired(models.RoleAdmin))
	{
		users := adminOnly.Group("/users")
		users.GET("", svc.userHandler.List)
		users.GET("/:id", svc.userHandler.Get)
		users.POST("", svc.userHandler.Create)
		users.PUT("/:id", svc.userHandler.Update)
		users.PUT("/:id/role", svc.userHandler.UpdateRole)
		users.DELETE("/:id", svc.userHandler.Delete)

		adminOnly.GET("/dashboard", svc.dashboardHandler.Stats)
	}
}
