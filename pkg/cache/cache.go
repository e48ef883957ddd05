// Package cache provides a keyed JSON value cache with an in-process driver
// (go-cache) and a shared Redis driver. Values are stored as JSON in both
// drivers so callers observe the same copy semantics regardless of driver.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/casebook/pkg/lifecycle"
)

// System stores and retrieves JSON-encoded values by key.
type System interface {
	// Get decodes the value at key into dest. The boolean is false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value at key for the configured TTL.
	Set(ctx context.Context, key string, value any) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// New creates a cache system for the configured driver.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "cache", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverMemory:
		return NewMemory(cfg.Prefix, cfg.TTLDuration(), cfg.CleanupIntervalDuration(), logger), nil
	case DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		return &redisCache{
			client: client,
			prefix: cfg.Prefix,
			ttl:    cfg.TTLDuration(),
			logger: logger,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}

type memory struct {
	store  *gocache.Cache
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// NewMemory creates an in-process cache.
func NewMemory(prefix string, ttl, cleanup time.Duration, logger *slog.Logger) System {
	return &memory{
		store:  gocache.New(ttl, cleanup),
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (m *memory) Get(_ context.Context, key string, dest any) (bool, error) {
	v, ok := m.store.Get(qualify(m.prefix, key))
	if !ok {
		return false, nil
	}

	data, ok := v.([]byte)
	if !ok {
		return false, fmt.Errorf("cache entry %s: unexpected type %T", key, v)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (m *memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	m.store.Set(qualify(m.prefix, key), data, m.ttl)
	return nil
}

func (m *memory) Delete(_ context.Context, key string) error {
	m.store.Delete(qualify(m.prefix, key))
	return nil
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting cache", "ttl", m.ttl)

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		m.store.Flush()
		m.logger.Info("cache flushed")
	})

	return nil
}

type redisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

func (r *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, qualify(r.prefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("get cache entry %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	if err := r.client.Set(ctx, qualify(r.prefix, key), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set cache entry %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, qualify(r.prefix, key)).Err(); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Start(lc *lifecycle.Coordinator) error {
	r.logger.Info("starting cache", "ttl", r.ttl)

	lc.OnStartup(func() {
		if err := r.client.Ping(lc.Context()).Err(); err != nil {
			r.logger.Error("cache ping failed", "error", err)
			return
		}
		r.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := r.client.Close(); err != nil {
			r.logger.Error("cache close failed", "error", err)
			return
		}
		r.logger.Info("cache connection closed")
	})

	return nil
}

func qualify(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
