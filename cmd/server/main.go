// Package main is the entrypoint for the tunevault API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiranshivaraju/tunevault/internal/api"
	"github.com/kiranshivaraju/tunevault/internal/api/handler"
	mw "github.com/kiranshivaraju/tunevault/internal/api/middleware"
	"github.com/kiranshivaraju/tunevault/internal/api/response"
	"github.com/kiranshivaraju/tunevault/internal/cache"
	"github.com/kiranshivaraju/tunevault/internal/config"
	"github.com/kiranshivaraju/tunevault/internal/downloads"
	"github.com/kiranshivaraju/tunevault/internal/fetcher"
	"github.com/kiranshivaraju/tunevault/internal/registry"
	"github.com/kiranshivaraju/tunevault/internal/spotify"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "download_dir", cfg.Downloads.Dir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Ensure the download directory exists
	if err := os.MkdirAll(cfg.Downloads.Dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}

	// 3. Optional Redis cache for rate limiting
	var redisCache cache.Cache
	var rateLimit *mw.RateLimit
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("create redis cache: %w", err)
		}
		defer rc.Close()

		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		slog.Info("redis connected")
		redisCache = rc
		rateLimit = mw.NewRateLimit(rc, cfg.Downloads.RateLimitPerMin)
	}

	// 4. Create external collaborators
	resolver := spotify.NewHTTPClient(
		cfg.Spotify.ClientID,
		cfg.Spotify.ClientSecret,
		cfg.Spotify.BaseURL,
		cfg.Spotify.TokenURL,
		cfg.Spotify.Timeout,
	)
	ytdlp := fetcher.NewYTDLP(cfg.Fetcher.BinPath, cfg.Fetcher.Timeout)

	// 5. Create the registry and download service
	reg := registry.New()
	svc := downloads.NewService(reg, resolver, ytdlp, cfg.Downloads.Dir, cfg.Downloads.RetentionTTL)

	// 6. Optional background janitor; POST /cleanup works either way
	if cfg.Downloads.CleanupInterval > 0 {
		go svc.Janitor(ctx, cfg.Downloads.CleanupInterval)
		slog.Info("janitor started", "interval", cfg.Downloads.CleanupInterval)
	}

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: rateLimit,

		HealthHandler:   healthHandler(cfg.Downloads.Dir, redisCache),
		DownloadHandler: handler.NewDownloadHandler(svc),
		StatusHandler:   handler.NewStatusHandler(svc),
		FileHandler:     handler.NewFileHandler(svc),
		CleanupHandler:  handler.NewCleanupHandler(svc),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Long write timeout: /mp3 streams whole audio files.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout. In-flight download goroutines are
	// abandoned: job state is in-memory only and lost on restart anyway.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks download-directory and cache availability.
func healthHandler(dir string, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"downloads": "ok",
		}

		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			checks["downloads"] = "degraded"
		}
		if c != nil {
			checks["cache"] = "ok"
			if err := c.Ping(r.Context()); err != nil {
				checks["cache"] = "degraded"
			}
		}

		for _, v := range checks {
			if v != "ok" {
				response.Error(w, http.StatusServiceUnavailable, "One or more services degraded")
				return
			}
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
