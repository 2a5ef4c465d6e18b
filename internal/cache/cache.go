package cache

import (
	"context" // Context for store operations
	"strconv" // Key formatting
	"time"    // TTL durations

	"github.com/sirupsen/logrus" // Logging library
)

// DefaultTTL is how long cached list/detail payloads live before passive expiry.
const DefaultTTL = 300 * time.Second

// Store is a key-based cache for serialized response payloads. A single
// instance is created at startup and passed by reference to the handlers;
// there is no package-level singleton. Implementations must treat every
// failure as recoverable; callers degrade to a cache miss.
type Store interface {
	// Get unmarshals the cached value for key into dest. The boolean
	// reports whether the key was present (and not expired).
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// ListKey builds the cache key for a resource's list view.
func ListKey(resource string) string {
	return resource + ":list"
}

// DetailKey builds the cache key for a single resource instance.
func DetailKey(resource string, id uint) string {
	return resource + ":detail:" + strconv.FormatUint(uint64(id), 10)
}

// Invalidate drops the list entry for the resource and, for each given id,
// that id's detail entry. Called after every successful create/update/delete;
// a payment creation additionally invalidates the parent collect's scope,
// since the payment mutates the collect aggregates. Failures are logged and
// swallowed; stale entries age out via TTL and must never fail the request.
func Invalidate(ctx context.Context, store Store, resource string, ids ...uint) {
	keys := []string{ListKey(resource)}
	for _, id := range ids {
		keys = append(keys, DetailKey(resource, id))
	}
	if err := store.Delete(ctx, keys...); err != nil {
		// Log and move on, the write path does not depend on the cache
		logrus.WithFields(logrus.Fields{
			"resource": resource,
			"error":    err.Error(),
		}).Warn("Cache invalidation failed")
	}
}
