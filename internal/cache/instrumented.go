package cache

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"posterforge/internal/metrics"
	"posterforge/pkg/logging/logging"
)

// Instrumented wraps a Store with logging + metrics.
type Instrumented struct {
	inner Store
}

// NewInstrumented returns a Store that logs each call and records
// per-namespace counters.
func NewInstrumented(inner Store) Store {
	return &Instrumented{inner: inner}
}

func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}
	ns := Namespace(key)
	metrics.CacheLookupsTotal.WithLabelValues(ns, result).Inc()

	fields := []zap.Field{
		zap.String("cache_namespace", ns),
		zap.String("cache_key", key),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Warn("cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("cache_get", fields...)
	}

	return value, ok, err
}

func (c *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	ns := Namespace(key)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.CacheWritesTotal.WithLabelValues(ns, result).Inc()

	fields := []zap.Field{
		zap.String("cache_namespace", ns),
		zap.String("cache_key", key),
		zap.Int("bytes", len(value)),
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.FromContext(ctx)
	if err != nil {
		logger.Warn("cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("cache_set", fields...)
	}

	return err
}

// Namespace returns the key's leading segment ("concept", "image").
func Namespace(key string) string {
	ns, _, found := strings.Cut(key, ":")
	if !found || ns == "" {
		return "other"
	}
	return ns
}
