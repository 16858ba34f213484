// Package main runs the background worker: outbox relay and housekeeping.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"synexpos/internal/config"
	"synexpos/internal/infrastructure/cache"
	"synexpos/internal/infrastructure/messaging"
	"synexpos/internal/infrastructure/storage/postgres"
	"synexpos/pkg/logger"
)

const (
	outboxBatchSize  = 100
	publishedMaxAge  = 7 * 24 * time.Hour
	housekeepingTick = time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.UsesPostgres() {
		config.MustEnv("DATABASE_URL")
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.ApplicationName = "synexpos-worker"
	poolCfg.MaxConns = 4
	poolCfg.MinConns = 1

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	var handler postgres.OutboxHandler = messaging.LogHandler{}
	if cfg.UsesRedis() {
		client, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer client.Close()
		handler = messaging.NewRedisPublisher(client, messaging.DefaultChannelPrefix)
		log.Infow("publishing events to redis", "addr", cfg.RedisAddr)
	}

	w := &Worker{
		pool:         pool,
		relay:        postgres.NewOutboxRelay(txManager, outboxBatchSize, handler),
		idempotency:  postgres.NewIdempotencyStore(txManager, cfg.IdempotencyTTL),
		pollInterval: cfg.OutboxPollInterval,
		log:          log.WithComponent("worker"),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Run(ctx)
	}()

	log.Infow("worker started", "poll_interval", cfg.OutboxPollInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	wg.Wait()

	log.Info("worker stopped")
	_ = log.Sync()
}

// Worker drains the outbox and expires old bookkeeping rows.
type Worker struct {
	pool         *postgres.Pool
	relay        *postgres.OutboxRelay
	idempotency  *postgres.IdempotencyStore
	pollInterval time.Duration
	log          *logger.Logger
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(housekeepingTick)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processOutbox(ctx)
		case <-cleanupTicker.C:
			w.cleanupOutbox(ctx)
			w.cleanupIdempotency(ctx)
			postgres.LogPoolStats(ctx, w.pool.Pool)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	// Keep draining while full batches come back.
	for {
		n, err := w.relay.ProcessBatch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				w.log.Errorw("outbox batch failed", "error", err)
			}
			return
		}
		if n > 0 {
			w.log.Debugw("processed outbox batch", "count", n)
		}
		if n < outboxBatchSize {
			return
		}
	}
}

func (w *Worker) cleanupOutbox(ctx context.Context) {
	n, err := w.relay.PurgePublished(ctx, publishedMaxAge)
	if err != nil {
		w.log.Errorw("failed to purge outbox", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("purged published outbox messages", "count", n)
	}
}

func (w *Worker) cleanupIdempotency(ctx context.Context) {
	n, err := w.idempotency.CleanupExpired(ctx)
	if err != nil {
		w.log.Errorw("failed to clean up idempotency keys", "error", err)
		return
	}
	if n > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", n)
	}
}
