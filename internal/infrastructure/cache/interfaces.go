package cache

import (
	"context"
	"errors"
	"time"
)

// Client is the cache abstraction shared by every verification service.
// Implementations must be safe for concurrent use. A TTL is required on
// every write; a Get never returns a value whose TTL has passed.
type Client interface {
	// Get retrieves a raw value by key. Returns ErrKeyNotFound when the
	// key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// GetJSON retrieves a value and unmarshals it into dest. Returns
	// ErrKeyNotFound when the key is absent or expired.
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// Set stores a raw value with the given TTL. A ttl <= 0 stores an
	// entry that behaves as absent on the next read.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetJSON marshals value to JSON and stores it with the given TTL.
	// A serialization failure returns an error without any network or
	// store interaction.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Exists reports whether a key exists and is unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// Clear removes every key owned by this client (for the durable
	// adapter, only keys under its namespace prefix).
	Clear(ctx context.Context) error

	// Ping reports whether the cache is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying connections.
	Close() error
}

// Cache key namespaces. A key is always namespaced by service and
// region ("{service}:{region-or-type}:{identifier}") so identical raw
// identifiers in different regions never collide.
const (
	NamespaceNPI            = "usa:npi"
	NamespaceStateBoard     = "usa:state_board"
	NamespaceNMC            = "india:nmc"
	NamespaceMedicalCouncil = "india:medical_council"
)

// Fixed TTLs per lookup class. These are per-service constants, not
// runtime-configurable per call.
const (
	ProviderTTL = 24 * time.Hour
	LicenseTTL  = 7 * 24 * time.Hour
)

// ErrKeyNotFound is returned when a key is absent or expired.
type ErrKeyNotFound struct {
	Key string
}

func (e ErrKeyNotFound) Error() string {
	return "cache key not found: " + e.Key
}

// IsNotFound reports whether err is a cache miss.
func IsNotFound(err error) bool {
	var notFound ErrKeyNotFound
	return errors.As(err, &notFound)
}

// Key joins a namespace and identifier into a cache key.
func Key(namespace, identifier string) string {
	return namespace + ":" + identifier
}
