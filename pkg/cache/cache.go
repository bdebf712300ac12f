// Package cache stores parsed package database snapshots between runs.
//
// Reading a large local database means opening and parsing one desc file per
// installed package. The cache keeps the parsed result keyed by a fingerprint
// of the database directory, so an unchanged database loads from a single
// file. Any install, removal or upgrade changes the fingerprint and therefore
// the key; stale entries simply expire.
//
// # Implementations
//
//   - [FileCache]: one JSON file per entry under a directory, for CLI use
//   - [NullCache]: never stores anything, for --no-cache and tests
//
// # Keys
//
// Keys have the form "<type>:<sha256>" (see [SnapshotKey]). The type prefix
// is reported to the cache hooks in pkg/observability.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// SnapshotKey returns the cache key of a parsed database snapshot.
//
// The key covers everything that changes the parsed result: the database
// location, its fingerprint, and whether optional dependencies are counted
// as edges.
func SnapshotKey(source, fingerprint string, includeOptional bool) string {
	return hashKey("snapshot", source, fingerprint, includeOptional)
}

// keyType returns the prefix of a "<type>:<hash>" key.
func keyType(key string) string {
	if t, _, ok := strings.Cut(key, ":"); ok {
		return t
	}
	return "unknown"
}
