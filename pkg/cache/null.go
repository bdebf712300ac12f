package cache

import (
	"context"
	"time"

	"github.com/matzehuels/pacview/pkg/observability"
)

// NullCache stores nothing. It backs --no-cache and a disabled cache
// section, so every database read goes to the desc files.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get reports a miss for every key. The miss is still reported to the
// cache hooks so verbose output shows that the cache was bypassed.
func (NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	observability.Cache().OnCacheMiss(ctx, keyType(key))
	return nil, false, nil
}

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
