// Package main is the entry point for the task service.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/AmirShamelov/taskr/internal/config"
	"github.com/AmirShamelov/taskr/internal/database"
	"github.com/AmirShamelov/taskr/internal/handlers"
	"github.com/AmirShamelov/taskr/internal/metrics"
	"github.com/AmirShamelov/taskr/internal/repository"
	"github.com/AmirShamelov/taskr/internal/routes"
	"github.com/AmirShamelov/taskr/internal/service"
	"github.com/AmirShamelov/taskr/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Task Service API
// @version 1.0
// @description Multi-user task tracker: register, log in, post tasks and complete or delete your own.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer session token returned by /auth/login. Browsers may use the session cookie instead.
func main() {
	if err := run(); err != nil {
		slog.Error("task service stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
		TimeZone: "UTC",
	})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Initialize services
	jwtService, err := service.NewJWTService(cfg.SessionSecret, cfg.SessionExpiry)
	if err != nil {
		return err
	}
	sessions := service.NewSessionService(jwtService, redisClient)
	authService := service.NewAuthService(userRepo, sessions)
	taskService := service.NewTaskService(taskRepo)

	if cfg.Admin.Enabled() {
		admin, err := authService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			return err
		}
		slog.Info("administrator ready", "user_id", admin.ID, "name", admin.Name)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.DBName),
	)
	m := metrics.New(registry)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.Setup(router, routes.Deps{
		Auth:  handlers.NewAuthHandler(authService, handlers.NewCookieHelper(cfg.Cookie), m),
		Tasks: handlers.NewTaskHandler(taskService, m),
		Health: handlers.NewHealthHandler(
			handlers.Check{Name: "database", Ping: sqlDB.PingContext},
			handlers.Check{Name: "redis", Ping: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}},
		),
		Sessions:       sessions,
		Metrics:        m,
		Gatherer:       registry,
		AllowedOrigins: cfg.AllowedOrigins,
		SwaggerHost:    cfg.SwaggerHost,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting task service", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
