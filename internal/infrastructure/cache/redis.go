package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
	"github.com/medverify/provider-verification-backend/internal/infrastructure/config"
)

// redisCache adapts a remote Redis instance to the Client interface,
// adding key namespacing, JSON serialization, and bounded retries.
type redisCache struct {
	client       *redis.Client
	keyPrefix    string
	maxRetries   int
	retryBackoff time.Duration
	logger       *zap.Logger
}

// NewRedisCache creates a Redis-backed cache. The connection itself is
// verified by the factory via Ping; construction only validates inputs.
func NewRedisCache(cfg *config.RedisConfig, logger *zap.Logger) (Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.URL,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		// go-redis has its own retry layer; ours is the one specified,
		// so the client's is disabled.
		MaxRetries:   -1,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	logger.Info("redis cache initialized",
		zap.String("addr", cfg.URL),
		zap.Int("db", cfg.DB),
		zap.String("key_prefix", cfg.KeyPrefix))

	return &redisCache{
		client:       client,
		keyPrefix:    cfg.KeyPrefix,
		maxRetries:   maxRetries,
		retryBackoff: backoff,
		logger:       logger,
	}, nil
}

func (r *redisCache) namespaced(key string) string {
	return r.keyPrefix + ":" + key
}

// withRetry runs op up to maxRetries times with exponential backoff.
// Only connection and timeout failures are retried; application-level
// errors (including redis.Nil) surface immediately.
func (r *redisCache) withRetry(ctx context.Context, name string, op func() error) error {
	var lastErr error
	backoff := r.retryBackoff

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !isConnectionError(err) {
			return err
		}
		lastErr = err

		if attempt < r.maxRetries {
			redisRetries.Inc()
			r.logger.Warn("redis operation failed, retrying",
				zap.String("op", name),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", r.maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	r.logger.Error("redis operation exhausted retries",
		zap.String("op", name),
		zap.Int("attempts", r.maxRetries),
		zap.Error(lastErr))
	return errors.NewCacheError(fmt.Sprintf("redis %s failed after %d attempts", name, r.maxRetries)).WithCause(lastErr)
}

// isConnectionError reports whether err is a transport-level failure
// worth retrying.
func isConnectionError(err error) bool {
	if err == nil || stderrors.Is(err, redis.Nil) {
		return false
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "i/o timeout")
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	var result string
	err := r.withRetry(ctx, "get", func() error {
		val, err := r.client.Get(ctx, r.namespaced(key)).Result()
		if err != nil {
			return err
		}
		result = val
		return nil
	})
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			cacheMisses.WithLabelValues("redis").Inc()
			return "", ErrKeyNotFound{Key: key}
		}
		return "", err
	}
	cacheHits.WithLabelValues("redis").Inc()
	return result, nil
}

func (r *redisCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return errors.NewSerializationError("unmarshaling cached value for " + key).WithCause(err)
	}
	return nil
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		// Redis rejects non-positive expirations; match the memory
		// cache's "already expired" behavior by not storing at all.
		return nil
	}
	return r.withRetry(ctx, "set", func() error {
		return r.client.Set(ctx, r.namespaced(key), value, ttl).Err()
	})
}

func (r *redisCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		// Serialization failure never reaches the network.
		return errors.NewSerializationError("marshaling value for " + key).WithCause(err)
	}
	return r.Set(ctx, key, string(raw), ttl)
}

func (r *redisCache) Delete(ctx context.Context, key string) (bool, error) {
	var deleted int64
	err := r.withRetry(ctx, "delete", func() error {
		n, err := r.client.Del(ctx, r.namespaced(key)).Result()
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (r *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.withRetry(ctx, "exists", func() error {
		n, err := r.client.Exists(ctx, r.namespaced(key)).Result()
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Clear removes only the keys under this client's namespace prefix,
// leaving the rest of the Redis keyspace untouched.
func (r *redisCache) Clear(ctx context.Context) error {
	return r.withRetry(ctx, "clear", func() error {
		var cursor uint64
		pattern := r.keyPrefix + ":*"
		for {
			keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return err
			}
			if len(keys) > 0 {
				if err := r.client.Del(ctx, keys...).Err(); err != nil {
					return err
				}
			}
			if next == 0 {
				return nil
			}
			cursor = next
		}
	})
}

func (r *redisCache) Ping(ctx context.Context) error {
	return r.withRetry(ctx, "ping", func() error {
		return r.client.Ping(ctx).Err()
	})
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
