package query

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goran-ethernal/EventCache/internal/logger"
	"github.com/goran-ethernal/EventCache/pkg/cache"
	"github.com/goran-ethernal/EventCache/pkg/config"
)

// Deps are the shared resources engines are built from.
type Deps struct {
	Config  config.CacheConfig
	Tx      cache.TxRunner
	Keys    cache.KeyStore
	Entries cache.EntryStore
	Fetcher cache.RangeFetcher
	Heights cache.HeightSource
	Pages   cache.PageSizer
}

// Factory creates an engine from the shared dependencies.
type Factory func(deps Deps, log *logger.Logger) (Engine, error)

var (
	registry = make(map[string]Factory)
	mu       sync.RWMutex
)

// Register registers an engine factory under a case-insensitive name.
// Engine packages call it from init().
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()

	name = strings.ToLower(name)
	if _, exists := registry[name]; exists {
		logger.GetDefaultLogger().Infof("engine %s already registered, overwriting", name)
	}

	registry[name] = factory
}

// GetFactory returns the factory registered under name, or nil.
func GetFactory(name string) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return registry[strings.ToLower(name)]
}

// ListRegistered returns the registered engine names in sorted order.
func ListRegistered() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the engine registered under name.
func Create(name string, deps Deps, log *logger.Logger) (Engine, error) {
	factory := GetFactory(name)
	if factory == nil {
		return nil, fmt.Errorf("unknown engine: %s (registered engines: %v)", name, ListRegistered())
	}

	return factory(deps, log)
}

// CreateAll builds the named engines in order.
func CreateAll(names []string, deps Deps, log *logger.Logger) ([]Engine, error) {
	engines := make([]Engine, 0, len(names))
	for _, name := range names {
		e, err := Create(name, deps, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create engine %s: %w", name, err)
		}
		engines = append(engines, e)
	}
	return engines, nil
}
