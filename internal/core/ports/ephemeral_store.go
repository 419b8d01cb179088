package ports

import (
	"context"
	"time"
)

// EphemeralStore is a key/value store for short-lived data such as rate limit
// windows and cached profile lookups. Nothing in it survives a restart by contract.
type EphemeralStore interface {
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// IncrWithExpiry atomically increments the counter under key and returns
	// the new count with the time left before the key expires. The first
	// increment starts the expiry clock; later increments never extend it.
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
}
