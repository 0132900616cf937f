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

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"

	"github.com/catalogd/catalogd/internal/api"
	"github.com/catalogd/catalogd/internal/auth"
	"github.com/catalogd/catalogd/internal/config"
	"github.com/catalogd/catalogd/internal/presence"
	"github.com/catalogd/catalogd/internal/product"
	"github.com/catalogd/catalogd/internal/profile"
	"github.com/catalogd/catalogd/internal/storage"
	"github.com/catalogd/catalogd/internal/team"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	pool, err := connectDB(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	deps := api.RouterDeps{
		Verifier:    auth.NewVerifier(cfg.JWTSecret),
		ProfileRepo: profile.NewRepository(pool),
		TeamRepo:    team.NewRepository(pool),
		ProductRepo: product.NewRepository(pool),
		DBPinger:    pool,
		RoutePrefix: cfg.RoutePrefix,
		CORSOrigin:  cfg.CORSOrigin,
		Version:     cfg.Version,
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		defer client.Close()
		deps.Presence = presence.NewRedisTracker(client, presence.DefaultTTL)
		deps.RedisPinger = redisPinger{client: client}
	} else {
		slog.Info("presence tracking disabled; REDIS_ADDR not set")
	}

	signer, err := storage.NewSigner(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
		Bucket:    cfg.StorageBucket,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		PublicURL: cfg.StoragePublicURL,
		UploadTTL: time.Duration(cfg.StorageURLTTL) * time.Second,
	})
	switch {
	case err == nil:
		deps.Storage = signer
	case errors.Is(err, storage.ErrDisabled):
		slog.Info("object storage disabled; storage endpoint or credentials not set")
	default:
		slog.Error("failed to configure object storage", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting catalogd server", "port", cfg.Port, "version", cfg.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

func connectDB(databaseURL string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}

// redisPinger adapts the go-redis client to the health handler's Pinger.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
