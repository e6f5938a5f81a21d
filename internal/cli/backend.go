package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"kuisin/internal/app"
	"kuisin/internal/config"
	"kuisin/internal/functions"
	"kuisin/internal/infra/memory"
	"kuisin/internal/infra/postgres"
	rediscache "kuisin/internal/infra/redis"
	"kuisin/internal/logging"
)

// Backend is the wired set of services plus whatever must be closed on exit.
type Backend struct {
	Services functions.Services
	closers  []func()
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// NewLogger builds the process logger from config.
func NewLogger(cfg config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Color)
}

// NewBackend picks Postgres when a URL is configured and Redis when an address
// is configured, falling back to the in-memory implementations otherwise.
func NewBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}

	var store app.Store
	if cfg.Postgres.URL != "" {
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		store = postgres.NewStore(pool)
		logger.Info("using postgres store")
	} else {
		store = memory.NewStore()
		logger.Warn("no postgres url configured, data is kept in memory")
	}

	questionTTL := config.TTLDuration(cfg.Cache.QuestionTTL, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	var cache app.QuestionCache
	var sessions app.SessionStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = client.Close() })
		cache = rediscache.NewQuestionCache(client, store, questionTTL)
		sessions = rediscache.NewSessionStore(client)
		logger.Info("using redis cache and sessions", "addr", cfg.Redis.Addr)
	} else {
		cache = memory.NewQuestionCache(store, questionTTL)
		sessions = memory.NewSessionStore()
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if !cfg.IsDevelopment() {
			b.Close()
			return nil, fmt.Errorf("auth.jwt_secret must be set outside development")
		}
		secret = "kuisin-development-secret"
		logger.Warn("using the development jwt secret")
	}

	b.Services = functions.NewServices(store, cache, sessions, functions.AuthConfig{
		Secret:   secret,
		TokenTTL: config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour),
	}).WithLogger(logger)
	return b, nil
}
