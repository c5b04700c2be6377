package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pvb",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits by backend",
		},
		[]string{"backend"},
	)

	cacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pvb",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses by backend",
		},
		[]string{"backend"},
	)

	memoryEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pvb",
			Subsystem: "cache",
			Name:      "memory_evictions_total",
			Help:      "Entries evicted from the in-process cache by LRU pressure",
		},
	)

	redisRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pvb",
			Subsystem: "cache",
			Name:      "redis_retries_total",
			Help:      "Retried Redis operations",
		},
	)

	factoryFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pvb",
			Subsystem: "cache",
			Name:      "factory_fallbacks_total",
			Help:      "Times the factory fell back to the in-process cache",
		},
	)
)
