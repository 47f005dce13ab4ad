// Package routes defines HTTP routes for the task service.
package routes

import (
	"time"

	"github.com/AmirShamelov/taskr/docs"
	"github.com/AmirShamelov/taskr/internal/handlers"
	"github.com/AmirShamelov/taskr/internal/metrics"
	"github.com/AmirShamelov/taskr/internal/middleware"
	"github.com/AmirShamelov/taskr/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the handlers and services the router needs.
type Deps struct {
	Auth           *handlers.AuthHandler
	Tasks          *handlers.TaskHandler
	Health         *handlers.HealthHandler
	Sessions       service.SessionService
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	// SwaggerHost enables /swagger when non-empty.
	SwaggerHost string
}

// Setup configures all HTTP routes and middleware on router.
func Setup(router *gin.Engine, deps Deps) {
	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		deps.Metrics.Middleware(),
	)
	// Preflights from AllowedOrigins answer here, including for paths with no route.
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.NoRoute(handlers.NotFound)

	router.GET("/health", deps.Health.Check)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}
	// Swagger documentation (only if SWAGGER_HOST is configured)
	if deps.SwaggerHost != "" {
		docs.SwaggerInfo.Host = deps.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := router.Group("/api/v1")
	v1.Use(middleware.CSRF(middleware.CSRFConfig{AllowedOrigins: deps.AllowedOrigins}))

	auth := v1.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/logout", deps.Auth.Logout)
		auth.GET("/me", middleware.RequireSession(deps.Sessions, deps.Metrics), deps.Auth.Me)
	}

	tasks := v1.Group("/tasks", middleware.RequireSession(deps.Sessions, deps.Metrics))
	{
		tasks.GET("", deps.Tasks.List)
		tasks.POST("", deps.Tasks.Create)
		tasks.POST("/:id/complete", deps.Tasks.Complete)
		tasks.DELETE("/:id", deps.Tasks.Delete)
	}
}
