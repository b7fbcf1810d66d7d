package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"cashflow/internal/amqp"
	"cashflow/internal/backend"
	"cashflow/internal/cache"
	"cashflow/internal/cli"
	apphttp "cashflow/internal/http"
	"cashflow/internal/i18n"
	"cashflow/internal/log"
	"cashflow/internal/metrics"
	"cashflow/internal/table"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentApp)

	var (
		provider      *metrics.Provider
		tableObserver table.Observer
		eventObserver amqp.Observer
	)
	if cfg.MetricsEnabled {
		provider = metrics.New()
		tableObserver, eventObserver = provider, provider
	}

	renderer := cli.NewRenderer(cfg, logger, tableObserver)
	caches := cache.NewManager(logger)
	caches.Register("table_columns", renderer)
	if provider != nil {
		if err := provider.RegisterCache("table_columns", renderer.CacheStats); err != nil {
			logger.Warn("Failed to register cache metrics", log.FieldError, err)
		}
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	be, err := backend.NewFactory(logger, eventObserver).Create(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	tables, err := apphttp.NewTables(i18n.Lookup(cfg.Locale), cfg.Currency, table.InferMode(cfg.TableInferFrom))
	if err != nil {
		logger.Error("Failed to build table configurations", log.FieldError, err)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions: be.Transactions,
		Dashboard:    be.Dashboard,
		Pinger:       be.Repository,
		Renderer:     renderer,
		Tables:       tables,
		Metrics:      provider,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("Failed to create server", log.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	caches.StartCleanup(context.Background(), 5*time.Minute)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		caches.Stop()
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting cashflow server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"locale", cfg.Locale,
		"metrics", cfg.MetricsEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
