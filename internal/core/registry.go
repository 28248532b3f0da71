package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]Preset)
	registryMu sync.RWMutex
)

// Register adds a preset to the registry.
// Panics if a preset with the same key is already registered.
func Register(p Preset) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[p.Key]; exists {
		panic(fmt.Sprintf("preset already registered: %s", p.Key))
	}
	if p.Title == "" {
		p.Title = p.Key
	}

	registry[p.Key] = p
}

// Get returns a preset by key.
// Returns false if not found.
func Get(key string) (Preset, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[key]
	return p, ok
}

// All returns all registered presets sorted by key.
func All() []Preset {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Preset, 0, len(registry))
	for _, p := range registry {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Count returns the number of registered presets.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered presets.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Preset)
}
