package cache

import (
	"errors"
	"fmt"
)

var (
	// ErrUninitializedCacheKey is returned when a key is fetched or committed before any estimate
	// created its progress record.
	ErrUninitializedCacheKey = errors.New("uninitialized cache key")

	// ErrStoreUnavailable means the backing store could not be reached or used.
	ErrStoreUnavailable = errors.New("cache store unavailable")

	// ErrStoreConflict means a transaction lost a race with a concurrent writer. Retrying may succeed.
	ErrStoreConflict = errors.New("cache store conflict")

	// ErrZeroPageSize is returned by estimates made with a page size of zero.
	ErrZeroPageSize = errors.New("page size must be greater than zero")
)

// UninitializedKeyError is returned for operations on a key that has no progress record.
type UninitializedKeyError struct {
	Key CacheKey
}

func (e *UninitializedKeyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUninitializedCacheKey, e.Key)
}

func (e *UninitializedKeyError) Unwrap() error {
	return ErrUninitializedCacheKey
}

// StoreError wraps a driver error with its classification (ErrStoreUnavailable or ErrStoreConflict).
type StoreError struct {
	Op   string
	Kind error
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsConflict reports whether err is a store conflict worth retrying.
func IsConflict(err error) bool {
	return errors.Is(err, ErrStoreConflict)
}
