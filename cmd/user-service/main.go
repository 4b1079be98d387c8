package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/storefrontlabs/storefront/internal/api/handlers"
	"github.com/storefrontlabs/storefront/internal/api/middleware"
	"github.com/storefrontlabs/storefront/internal/config"
	"github.com/storefrontlabs/storefront/internal/db"
	"github.com/storefrontlabs/storefront/internal/health"
	"github.com/storefrontlabs/storefront/internal/metrics"
	repository "github.com/storefrontlabs/storefront/internal/repositories"
	redisrepo "github.com/storefrontlabs/storefront/internal/repositories/redis"
	service "github.com/storefrontlabs/storefront/internal/services"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if err := db.Migrate(repos.DB); err != nil {
		slog.Error("❌ Error applying migrations", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup, backs the signin rate limiter
	redisRepo, err := redisrepo.NewRedisRepo(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	userService := service.NewUserService(repos.User, redisRepo, []byte(cfg.Security.JWTKey), cfg.Security.TokenTTL)
	userHandler := handlers.NewUserHandler(userService)

	healthHandler, err := health.NewHealthHandler(cfg, "user-service", true)
	if err != nil {
		slog.Error("❌ Error setting up health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/user/signup", userHandler.Signup())
	routerMux.HandleFunc("POST /api/user/signin", userHandler.Signin())
	routerMux.Handle("GET /status", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Measure(handler)
	handler = middleware.Logging(handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.UserAddr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.UserAddr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}
}
