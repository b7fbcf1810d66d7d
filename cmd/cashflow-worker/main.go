package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/amqp"
	"cashflow/internal/cli"
	"cashflow/internal/i18n"
	"cashflow/internal/log"
	"cashflow/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqp.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	renderer := cli.NewRenderer(cfg, logger, nil)
	events, err := worker.NewEventWorker(worker.Options{
		Renderer: renderer,
		Locale:   i18n.Lookup(cfg.Locale),
		Currency: cfg.Currency,
		History:  cfg.WorkerHistory,
		Out:      os.Stdout,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Failed to create event worker", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, events.Handle)
	})
	g.Go(func() error {
		ticker := time.NewTicker(cfg.TableCacheTTL)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				renderer.CleanExpired()
			}
		}
	})

	logger.Info("Starting cashflow worker",
		log.FieldOperation, log.OpStartup,
		"queue", cfg.AMQPQueue,
		"history", cfg.WorkerHistory)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
