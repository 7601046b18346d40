package supplier

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a Strategy for one storefront of a family.
type Constructor func(def Definition, deps Deps) Strategy

var (
	registry = make(map[string]Constructor)
	mu       sync.RWMutex
)

// Register installs a family constructor. Families register themselves
// from their package init.
func Register(family string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	registry[family] = ctor
}

// New instantiates the strategy for a catalog definition.
func New(def Definition, deps Deps) (Strategy, error) {
	mu.RLock()
	ctor, ok := registry[def.Family]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("supplier family %q not registered", def.Family)
	}
	return ctor(def, deps), nil
}

// Families returns the registered family names, sorted.
func Families() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
