package router

import (
	"strings"
	"time"

	"github.com/aubry-tp/aubry-tp/internal/config"
	"github.com/aubry-tp/aubry-tp/internal/handlers"
	"github.com/aubry-tp/aubry-tp/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Default allowed origins for development
var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

func allowedOrigins(cfg config.Config) []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if cfg.ClientURL != "" {
		origins = append(origins, cfg.ClientURL)
	}

	for _, origin := range strings.Split(cfg.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}

// NewRouter wires every route. A nil limiter disables rate limiting,
// which the tests use.
func NewRouter(cfg config.Config, limiter *middleware.IPRateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(cfg),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded images are served straight from the upload directory
	r.Static("/images", cfg.UploadDir)

	rateLimited := middleware.RateLimitMiddleware(limiter)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", rateLimited, handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/change-password", middleware.AuthMiddleware(), handlers.ChangePassword)
			auth.POST("/reset-password", rateLimited, handlers.ResetPassword)

			// Bootstrap endpoint, never exposed in production
			if !cfg.IsProduction() {
				auth.POST("/init", handlers.InitAdmin)
			}
		}

		projects := api.Group("/projects")
		{
			projects.GET("", handlers.ListProjects)
			projects.GET("/:id", handlers.GetProject)
			projects.POST("", middleware.AuthMiddleware(), handlers.CreateProject)
			projects.PUT("/:id", middleware.AuthMiddleware(), handlers.UpdateProject)
			projects.DELETE("/:id", middleware.AuthMiddleware(), handlers.DeleteProject)
		}

		api.POST("/upload", middleware.AuthMiddleware(), handlers.Upload)

		api.POST("/contact", rateLimited, handlers.CreateContact)

		settings := api.Group("/settings")
		{
			settings.GET("/social-links", handlers.GetSocialLinks)
			settings.POST("/social-links", middleware.AuthMiddleware(), handlers.UpdateSocialLinks)
		}

		api.POST("/facebook/post", middleware.AuthMiddleware(), handlers.FacebookPost)
	}

	return r
}
