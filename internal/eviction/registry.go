package eviction

import (
	"fmt"
	"slices"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func() Strategy)
)

// Register makes a ranking strategy available by name. It is meant to be
// called from init and panics on an empty name, a nil factory or a name that
// is already taken.
func Register(name string, factory func() Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if name == "" || factory == nil {
		panic("eviction: Register called with empty name or nil factory")
	}
	if _, dup := registry[name]; dup {
		panic("eviction: Register called twice for strategy " + name)
	}
	registry[name] = factory
}

// GetStrategy returns a new instance of the strategy with the given name.
func GetStrategy(name string) (Strategy, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown ranking strategy %q (available: %v)", name, sortedNames())
	}
	return factory(), nil
}

// Strategies returns the registered strategy names, sorted.
func Strategies() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return sortedNames()
}

// sortedNames expects registryMu to be held.
func sortedNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
