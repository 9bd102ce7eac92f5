// Package storage provides the key-value substrate the credential store is
// persisted in. Every backend exposes the same synchronous Get/Set/Remove
// contract as browser local storage: string keys, string values, and a finite
// capacity that makes Set fail once exceeded.
package storage

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by Set when the write would push the store past
// its capacity. The previous value, if any, is left in place.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KV is a string key-value store.
type KV interface {
	// Get returns the value stored under key. found is false when the key is
	// absent; err is reserved for backend failures.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value under key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// entrySize is the number of bytes an entry counts against a quota.
func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}
