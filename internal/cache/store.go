// Package cache stores serialized orchestration payloads for a bounded time.
//
// Entries are written only after a successful external call and read back
// verbatim; callers treat every cache error as a miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the interface used by the orchestrator.
// Implemented by the memory store (default), Redis and Valkey.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendValkey = "valkey"

	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 100
)

type Config struct {
	Backend  string
	TTL      time.Duration
	Capacity int // memory backend only
	Prefix   string
	Addr     string
	Password string
	DB       int
}

// New builds the configured backend. Remote backends are pinged once so a bad
// address fails at startup instead of on the first request.
func New(ctx context.Context, cfg Config) (Store, func() error, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	switch cfg.Backend {
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("cache: redis ping: %w", err)
		}
		return NewRedis(client, RedisConfig{Prefix: cfg.Prefix, TTL: cfg.TTL}), client.Close, nil
	case BackendValkey:
		v, err := NewValkey(ctx, ValkeyConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return v, v.Close, nil
	case BackendMemory, "":
		return NewMemory(cfg.TTL, cfg.Capacity), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
