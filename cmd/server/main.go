package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/statboard/internal/config"
	"github.com/JonMunkholm/statboard/internal/core"
	"github.com/JonMunkholm/statboard/internal/core/presets" // Register built-in boards
	"github.com/JonMunkholm/statboard/internal/fetch"
	"github.com/JonMunkholm/statboard/internal/logging"
	"github.com/JonMunkholm/statboard/internal/metrics"
	"github.com/JonMunkholm/statboard/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dir", cfg.Data.Dir,
		"cache_ttl", cfg.Data.CacheTTL,
		"fetch_max_concurrent", cfg.Data.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	if cfg.Data.PresetsFile != "" {
		n, err := presets.LoadFile(cfg.Data.PresetsFile)
		if err != nil {
			slog.Error("failed to load presets", "file", cfg.Data.PresetsFile, "error", err)
			os.Exit(1)
		}
		slog.Info("presets loaded", "file", cfg.Data.PresetsFile, "boards", n)
	}

	slog.Info("boards registered", "count", core.Count())
	for _, p := range core.All() {
		slog.Debug("board", "key", p.Key, "source", p.Source)
	}

	// Fetch stack: route by scheme, bound concurrency, cache, then measure.
	rec := metrics.New()
	limiter := fetch.NewLimiter(fetch.Mux{
		Remote: fetch.NewHTTP(cfg.Data.HTTPTimeout, cfg.Data.MaxBytes),
		Local:  fetch.NewDir(cfg.Data.Dir, cfg.Data.MaxBytes),
	}, cfg.Data.MaxConcurrent, cfg.Data.MaxWait)
	cache := fetch.NewCached(limiter, cfg.Data.CacheTTL)

	service := core.NewService(fetch.Observe(cache, rec))
	server := web.NewServer(service, cfg, rec)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Wait for in-flight fetches to complete (with timeout)
		if active := limiter.Active(); active > 0 {
			slog.Info("waiting for fetches to complete", "active", active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("fetches did not complete in time", "error", err)
			}
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
