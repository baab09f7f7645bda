package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coffee-bff/internal/api"
	"coffee-bff/internal/auth"
	"coffee-bff/internal/cache"
	"coffee-bff/internal/coffeemaker"
	"coffee-bff/internal/config"
	"coffee-bff/internal/guard"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting coffee gateway", "port", cfg.HTTPPort, "coffeemaker", cfg.CoffeeMakerURL)

	var limiter api.RateLimiter
	if cfg.RedisAddr != "" {
		redisClient, err := cache.NewClient(cfg.RedisAddr, cfg.RateLimit, cfg.RateWindow)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = redisClient
		slog.Info("Connected to Redis", "addr", cfg.RedisAddr)
	} else {
		slog.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)
	if !authMiddleware.Enabled() {
		slog.Warn("JWT_SECRET not set, UI endpoints are unauthenticated")
	}

	dispatcher := guard.NewDispatcher(coffeemaker.NewClient(cfg))
	handler := api.NewHandler(dispatcher, limiter)
	router := api.NewRouter(handler, api.RouterOptions{
		Auth:        authMiddleware,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		slog.Error("Failed to listen", "addr", srv.Addr, "error", err)
		os.Exit(1)
	}

	slog.Info("Server listening", "addr", srv.Addr)
	if err := serve(ctx, srv, ln, 10*time.Second); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// serve runs srv on ln until ctx is done, then waits up to grace for
// in-flight requests before returning.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		drained <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-drained; err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
