package cache

import (
	"container/list"
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/medverify/provider-verification-backend/internal/domain/errors"
)

// memoryCache is a bounded in-process cache with TTL expiry and LRU
// eviction. It is the last-resort fallback when Redis is unreachable
// and the default for tests, so it favors a single lock over striping.
type memoryCache struct {
	maxEntries      int
	cleanupInterval time.Duration
	logger          *zap.Logger

	mu          sync.Mutex
	entries     map[string]*list.Element
	order       *list.List // front = most recently used
	lastCleanup time.Time
}

type memoryEntry struct {
	key       string
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates a bounded in-process cache. maxEntries caps
// the entry count; cleanupInterval rate-limits the lazy expiry sweep.
func NewMemoryCache(maxEntries int, cleanupInterval time.Duration, logger *zap.Logger) Client {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("memory cache initialized", zap.Int("max_entries", maxEntries))

	return &memoryCache{
		maxEntries:      maxEntries,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		entries:         make(map[string]*list.Element),
		order:           list.New(),
		lastCleanup:     time.Now(),
	}
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupExpiredLocked()

	elem, ok := m.entries[key]
	if !ok {
		cacheMisses.WithLabelValues("memory").Inc()
		return "", ErrKeyNotFound{Key: key}
	}

	entry := elem.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.removeLocked(elem)
		cacheMisses.WithLabelValues("memory").Inc()
		return "", ErrKeyNotFound{Key: key}
	}

	m.order.MoveToFront(elem)
	cacheHits.WithLabelValues("memory").Inc()
	return entry.value, nil
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := m.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return errors.NewSerializationError("unmarshaling cached value for " + key).WithCause(err)
	}
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupExpiredLocked()

	// ttl <= 0 stores an already-expired entry rather than failing:
	// it simply behaves as absent on the next read.
	expiresAt := time.Now().Add(ttl)

	if elem, ok := m.entries[key]; ok {
		// Re-setting an existing key must not change capacity
		// accounting, so no eviction happens here.
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		m.order.MoveToFront(elem)
		return nil
	}

	if len(m.entries) >= m.maxEntries {
		m.evictLRULocked()
	}

	elem := m.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	m.entries[key] = elem
	return nil
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.NewSerializationError("marshaling value for " + key).WithCause(err)
	}
	return m.Set(ctx, key, string(raw), ttl)
}

func (m *memoryCache) Delete(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	m.removeLocked(elem)
	return true, nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cleanupExpiredLocked()

	elem, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if time.Now().After(elem.Value.(*memoryEntry).expiresAt) {
		m.removeLocked(elem)
		return false, nil
	}
	return true, nil
}

func (m *memoryCache) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := len(m.entries)
	m.entries = make(map[string]*list.Element)
	m.order.Init()
	m.logger.Info("memory cache cleared", zap.Int("entries", count))
	return nil
}

// Ping always succeeds: the memory cache has no external dependency.
func (m *memoryCache) Ping(ctx context.Context) error {
	return nil
}

func (m *memoryCache) Close() error {
	return nil
}

// Stats reports entry counts for monitoring.
func (m *memoryCache) Stats() (total, expired int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, elem := range m.entries {
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			expired++
		}
	}
	return len(m.entries), expired
}

// cleanupExpiredLocked opportunistically sweeps expired entries at most
// once per cleanupInterval. Correctness only requires that expired
// entries are never returned, not that they are removed promptly.
func (m *memoryCache) cleanupExpiredLocked() {
	now := time.Now()
	if now.Sub(m.lastCleanup) < m.cleanupInterval {
		return
	}
	m.lastCleanup = now

	removed := 0
	for elem := m.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*memoryEntry).expiresAt) {
			m.removeLocked(elem)
			removed++
		}
		elem = prev
	}
	if removed > 0 {
		m.logger.Debug("swept expired cache entries", zap.Int("removed", removed))
	}
}

func (m *memoryCache) evictLRULocked() {
	elem := m.order.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*memoryEntry)
	m.removeLocked(elem)
	memoryEvictions.Inc()
	m.logger.Debug("evicted lru cache entry", zap.String("key", entry.key))
}

func (m *memoryCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*memoryEntry)
	m.order.Remove(elem)
	delete(m.entries, entry.key)
}
