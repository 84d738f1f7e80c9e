package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgo/shelf/internal/config"
	"github.com/forgo/shelf/internal/database"
	"github.com/forgo/shelf/internal/handler"
	"github.com/forgo/shelf/internal/middleware"
	"github.com/forgo/shelf/internal/repository"
	"github.com/forgo/shelf/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// The listener starts before the store is reachable. Until the connect
	// goroutine publishes the repository, store calls fail with
	// database.ErrNotConnected.
	store := repository.NewDeferred()
	connectErr := make(chan error, 1)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go func() {
		dbCfg := cfg.Database()
		repo, err := repository.OpenWithRetry(ctx, dbCfg, cfg.Store.ConnectRetries, cfg.Store.ConnectBackoff)
		if err != nil {
			connectErr <- err
			return
		}
		store.Set(repo)
		slog.Info("connected to store",
			slog.String("uri", database.Redact(dbCfg.URI)),
		)
	}()

	// Initialize services
	bookService := service.NewBookService(service.BookServiceConfig{
		BookRepo:  store,
		OpTimeout: cfg.Store.OpTimeout,
	})

	router := handler.NewRouter(handler.RouterConfig{
		Books:     bookService,
		Store:     store,
		StaticDir: cfg.Server.StaticDir,
	})

	// Apply global middleware
	middlewares := []middleware.Middleware{
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(),
	}
	if cfg.RateLimit.RPS > 0 {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
		defer rateLimiter.Stop()
		middlewares = append(middlewares, middleware.RateLimit(rateLimiter))
	}
	middlewares = append(middlewares, middleware.Compress)

	wrapped := middleware.Chain(router, middlewares...)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err := <-connectErr:
		slog.Error("failed to connect to store", slog.String("error", err.Error()))
		exitCode = 1
	case err := <-serverErr:
		slog.Error("server error", slog.String("error", err.Error()))
		exitCode = 1
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	if err := store.Close(shutdownCtx); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
}
