package main

import (
	"context"
	"os"
	"time"

	"cozypocket/internal/assistant"
	"cozypocket/internal/backend"
	"cozypocket/internal/cache"
	"cozypocket/internal/cli"
	apphttp "cozypocket/internal/http"
	"cozypocket/internal/ledger"
	applog "cozypocket/internal/log"
	"cozypocket/internal/middleware/ratelimit"
	"cozypocket/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Slog()).
		CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	store := ledger.New(result.Blobs,
		ledger.WithKey(cfg.StorageKey),
		ledger.WithLogger(logger.WithComponent(applog.ComponentLedger).Slog()))
	store.Load(context.Background())
	svc := services.NewLedgerService(store, result.Publisher, logger.WithComponent(applog.ComponentLedger).Slog())

	var parser assistant.Parser
	if cfg.AssistantEnabled() {
		g, err := assistant.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Warn("Parsing assistant unavailable", applog.FieldError, err)
		} else {
			parser = g
			logger.Info("Parsing assistant enabled", "model", cfg.GeminiModel)
		}
	}
	assist := assistant.NewService(parser, assistant.Config{
		Timeout:   cfg.AssistantTimeout,
		CacheTTL:  cfg.AssistantCacheTTL,
		CacheSize: cfg.AssistantCacheSize,
	}, logger.WithComponent(applog.ComponentAssistant).Slog())

	caches := cache.NewManager(logger.WithComponent(applog.ComponentCache).Slog())
	if c := assist.Cache(); c != nil {
		caches.Register("assistant", c)
	}
	caches.StartCleanup(5 * time.Minute)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Options{
		Ledger:    svc,
		Assistant: assist,
		Ready:     result.Ready,
		Logger:    logger,
		RateLimit: ratelimit.DefaultConfig(),
	})

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Stop()
		// Cleanup also closes the publisher handed to svc.
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Failed to close backend", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting cozypocket server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
