package cache

import (
	"context"
	"time"
)

// NullCache misses every read and discards every write. It backs the
// --no-cache paths and the cache.backend = "none" config setting, so the
// pipeline runs identically with caching off instead of branching at each
// call site.
type NullCache struct{}

// NewNullCache returns the no-op cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
