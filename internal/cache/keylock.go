package cache

import (
	"context"

	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/puzpuzpuz/xsync/v3"
)

// KeyLocks serializes work on a cache key within the process. A key's lock is created on first
// use and kept for the life of the process.
type KeyLocks struct {
	locks *xsync.MapOf[cache.CacheKey, chan struct{}]
}

func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: xsync.NewMapOf[cache.CacheKey, chan struct{}]()}
}

// Lock blocks until key is free or ctx is done. The returned function unlocks the key.
func (l *KeyLocks) Lock(ctx context.Context, key cache.CacheKey) (func(), error) {
	sem, _ := l.locks.LoadOrCompute(key, func() chan struct{} {
		return make(chan struct{}, 1)
	})

	select {
	case sem <- struct{}{}:
		return func() { <-sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of keys that have ever been locked.
func (l *KeyLocks) Len() int {
	return l.locks.Size()
}
