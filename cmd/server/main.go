// Package main is the entry point for the point-of-sale API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"synexpos/internal/app"
	"synexpos/internal/config"
	"synexpos/internal/domain/auth"
	"synexpos/internal/infrastructure/cache"
	v1 "synexpos/internal/infrastructure/http/v1"
	"synexpos/internal/infrastructure/http/v1/handlers"
	"synexpos/internal/infrastructure/http/v1/middleware"
	"synexpos/internal/infrastructure/payment"
	"synexpos/internal/infrastructure/printer"
	"synexpos/internal/infrastructure/storage/memory"
	"synexpos/internal/infrastructure/storage/postgres"
	"synexpos/pkg/logger"
)

var version = "dev"

// redisPinger adapts a redis client to the readiness check.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
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

	ctx := context.Background()
	log.Infow("starting synexpos server", "version", version)

	checks := make(map[string]handlers.Pinger)
	storage := "memory"
	var (
		repos       app.Repositories
		idempotency middleware.IdempotencyStore
	)

	// --- Storage ---
	if cfg.UsesPostgres() {
		poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
		poolCfg.MaxConns = cfg.DBMaxConns
		poolCfg.MinConns = cfg.DBMinConns

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()

		if err := postgres.Migrate(ctx, pool.Pool); err != nil {
			log.Fatalw("failed to apply migrations", "error", err)
		}

		txManager := postgres.NewTxManager(pool)
		repos, err = app.PostgresRepositories(txManager)
		if err != nil {
			log.Fatalw("failed to create repositories", "error", err)
		}
		idempotency = postgres.NewIdempotencyStore(txManager, cfg.IdempotencyTTL)
		checks["database"] = pool
		storage = "postgres"
		log.Info("database connection established")
	} else {
		repos = app.MemoryRepositories(memory.NewStore())
		log.Warn("DATABASE_URL not set, running on the in-memory store")
	}

	// --- Cache ---
	if cfg.UsesRedis() {
		client, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.ItemCacheTTL,
		})
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer client.Close()

		repos = repos.WithItemCache(client, cfg.ItemCacheTTL)
		checks["redis"] = redisPinger{client: client}
		log.Infow("item cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.ItemCacheTTL)
	}

	// --- Services ---
	jwtCfg := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtCfg.AccessTokenTTL = cfg.JWTAccessTTL

	receiptCfg := printer.DefaultConfig()
	receiptCfg.StoreName = cfg.StoreName
	receiptCfg.Dir = cfg.ReceiptDir

	services := app.NewServices(repos, app.Options{
		JWT:            jwtCfg,
		Auth:           auth.DefaultServiceConfig(),
		SerialStrategy: cfg.SerialStrategy,
		Gateway:        payment.NewMockGateway(),
		Printer:        printer.New(receiptCfg, os.Stdout),
	})

	if !cfg.UsesPostgres() {
		bootstrapAdmin(ctx, services, cfg.AdminPassword, log)
	}

	// --- HTTP ---
	mode := "release"
	if cfg.LogDevelopment {
		mode = "debug"
	}
	router := v1.NewRouter(v1.RouterConfig{
		Services:     services,
		Logger:       log,
		JWTValidator: services.Auth,
		Idempotency:  idempotency,
		HealthChecks: checks,
		Storage:      storage,
		Version:      version,
		Mode:         mode,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("HTTP server starting", "port", cfg.HTTPPort, "storage", storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
	_ = log.Sync()
}

// bootstrapAdmin creates the first admin on a fresh in-memory store, which
// has no seed command.
func bootstrapAdmin(ctx context.Context, services *app.Services, password string, log *logger.Logger) {
	if password == "" {
		log.Warn("ADMIN_PASSWORD not set, the in-memory store has no users")
		return
	}
	if _, err := services.Auth.Register(ctx, auth.RegisterRequest{
		Username: "admin",
		Password: password,
		FullName: "System Admin",
		Role:     auth.RoleAdmin,
	}); err != nil {
		log.Fatalw("failed to create admin user", "error", err)
	}
	log.Info("admin user created")
}
