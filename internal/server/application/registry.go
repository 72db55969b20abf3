package application

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Source is what a Factory instantiates an application from.
type Source struct {
	// Path is the entry-point file, empty when the application comes from
	// a descriptor.
	Path string

	// Data is the entry-point file's content.
	Data []byte

	// Options are the descriptor's free-form options.
	Options map[string]any
}

// Factory builds an application from a Source.
type Factory func(src Source) (http.Handler, error)

// Registry maps application names to factories. Names are case-insensitive.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry creates a registry holding the built-in applications.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register("static", newStatic)
	_ = r.Register("hello", newHello)
	return r
}

// Register adds a factory. Registering a name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	key := strings.ToLower(name)
	if key == "" {
		return fmt.Errorf("register application: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[key]; ok {
		return fmt.Errorf("register application %q: already registered", name)
	}
	r.factories[key] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered names, sorted.
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
