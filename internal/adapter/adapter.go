// Package adapter provides live-database adapters for Quarry's schema
// browsing. Adapters expose schema and table listings; they never
// write to the target database.
package adapter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/quarry-labs/quarry/pkg/core"
)

// Factory creates a new adapter instance.
type Factory func() core.Adapter

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes an adapter type available by name.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New creates an adapter for the given database type.
func New(dbType string) (core.Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[dbType]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown database type: %s (available: %v)", dbType, Available())
	}
	return factory(), nil
}

// Available returns the registered adapter names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
