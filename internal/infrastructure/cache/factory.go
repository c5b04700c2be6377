package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
)

// disabledCacheSize keeps a disabled cache architecturally present (so
// callers never null-check) while behaving as near-always-miss.
const disabledCacheSize = 10

// New selects the cache backend for this process:
//
//  1. caching disabled  -> tiny in-process cache
//  2. Redis reachable   -> durable Redis adapter
//  3. Redis unreachable -> full-size in-process cache, unless fallback
//     is disabled, in which case the startup error propagates.
//
// Availability of the verification services never depends on the
// durable cache being reachable.
func New(cfg *config.Config, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Redis.Enabled {
		logger.Info("caching disabled, using minimal in-process cache")
		return NewMemoryCache(disabledCacheSize, cfg.Memory.CleanupInterval, logger), nil
	}

	client, err := NewRedisCache(&cfg.Redis, logger)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
		defer cancel()
		err = client.Ping(ctx)
		if err == nil {
			logger.Info("using redis cache", zap.String("addr", cfg.Redis.URL))
			return client, nil
		}
		_ = client.Close()
	}

	if !cfg.Redis.FallbackToMemory {
		logger.Error("redis unavailable and fallback disabled", zap.Error(err))
		return nil, errors.NewConfigurationError(
			"CACHE_UNAVAILABLE",
			"redis cache unavailable and fallback disabled",
		).WithCause(err)
	}

	factoryFallbacks.Inc()
	logger.Warn("redis unavailable, falling back to in-process cache",
		zap.String("addr", cfg.Redis.URL),
		zap.Error(err))
	return NewMemoryCache(cfg.Memory.MaxEntries, cfg.Memory.CleanupInterval, logger), nil
}

var (
	defaultMu     sync.Mutex
	defaultClient Client
)

// Default returns the process-wide cache instance, constructing it on
// first use. Business logic receives the cache by injection; Default
// exists for the composition root only.
func Default(cfg *config.Config, logger *zap.Logger) (Client, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient != nil {
		return defaultClient, nil
	}

	client, err := New(cfg, logger)
	if err != nil {
		return nil, err
	}
	defaultClient = client
	return defaultClient, nil
}

// ResetDefault drops the process-wide instance so tests can isolate
// factory decisions. The previous instance, if any, is closed.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient != nil {
		_ = defaultClient.Close()
		defaultClient = nil
	}
}
