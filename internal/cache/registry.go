// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"sort"
	"sync"
)

// Factory constructs a backend from resolved settings. Factories validate
// the settings they care about: the jsonfile factory refuses a missing
// connection, for example.
type Factory func(Settings) (Backend, error)

// Registry maps plugin names to backend factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty Registry. Most callers want the package's
// default registry (via Open and Names) which has the built-in backends
// registered; fresh registries exist for tests and embedding.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name, replacing any previous registration.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the backend selected by s.Plugin. A name with no
// registered factory is a configuration error, never a silent fallback.
func (r *Registry) Open(s Settings) (Backend, error) {
	r.mu.RLock()
	factory, ok := r.factories[s.Plugin]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownPluginError{Name: s.Plugin, Registered: r.Names()}
	}
	return factory(s)
}

var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.Register("jsonfile", newJSONFileBackend)
	defaultRegistry.Register("memory", newMemoryBackend)
}

// Open constructs a backend from the default registry.
func Open(s Settings) (Backend, error) { return defaultRegistry.Open(s) }

// Names returns the plugin names registered in the default registry.
func Names() []string { return defaultRegistry.Names() }
