package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aaravmahajanofficial/users-api/internal/api"
	"github.com/aaravmahajanofficial/users-api/internal/api/handlers"
	"github.com/aaravmahajanofficial/users-api/internal/config"
	"github.com/aaravmahajanofficial/users-api/internal/health"
	repository "github.com/aaravmahajanofficial/users-api/internal/repositories"
	service "github.com/aaravmahajanofficial/users-api/internal/services"
	"github.com/aaravmahajanofficial/users-api/internal/telemetry"
)

// @title        Users API
// @version      1.0
// @description  In-memory CRUD over user records.
// @BasePath     /
func main() {

	// Load config
	cfg := config.MustLoad()

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	// Tracing setup
	shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Store setup, the store lives only as long as the process
	userRepo := repository.NewUserRepo()
	userService := service.NewUserService(userRepo)
	userHandler := handlers.NewUserHandler(userService, cfg.HTTPServer.MaxBodyBytes)

	// Redis setup, optional
	var rateLimiter repository.RateLimitRepository
	if cfg.RedisConnect.Enabled() {
		redisClient, err := repository.NewRedisClient(cfg)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
			}
		}()

		rateLimiter = repository.NewRateLimitRepo(redisClient, cfg.RateConfig)
	}

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Users: userRepo})
	if err != nil {
		slog.Error("❌ Error initializing health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"), slog.Bool("rate_limit", rateLimiter != nil))

	// Setup router
	handler := api.NewRouter(api.Dependencies{
		UserHandler: userHandler,
		Health:      healthHandler.Handler(),
		RateLimiter: rateLimiter,
		ServiceName: cfg.Otel.ServiceName,
	})

	// Setup http server
	server := http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
