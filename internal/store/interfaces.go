package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/storage_mock.go -package=mock

// Storage is the persistent key-value store holding per-wallet cache data.
// Get and Set are synchronous; Remove deletes a batch of keys and may touch
// the durable backing asynchronously with respect to other callers.
//
// Implementations layer a fast in-memory cache over a durable backing store
// and expose this single read path; callers never branch on which layer a
// value came from.
type Storage interface {
	// Get returns the value stored under key, and whether it exists.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Remove deletes all given keys in one batch. Missing keys are not an
	// error.
	Remove(ctx context.Context, keys ...string) error
}
