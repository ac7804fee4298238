// Package registry maps names to constructors. Entries are registered
// explicitly at startup; lookups of unknown names fail with ErrNotFound.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"pkg.jsn.cam/carton/pkg/params"
)

var (
	ErrNotFound  = errors.New("not registered")
	ErrDuplicate = errors.New("already registered")
)

// Factory builds a value from its options.
type Factory[T any] func(opts params.Params) (T, error)

// Registry holds the factories of one kind of component.
type Registry[T any] struct {
	factories map[string]Factory[T]
	kind      string
	mu        sync.RWMutex
}

// New creates an empty registry. kind names the component in error messages.
func New[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:      kind,
		factories: make(map[string]Factory[T]),
	}
}

// Register adds a factory under name.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%s %q: %w", r.kind, name, ErrDuplicate)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register for package initialisation; it panics on duplicates.
func (r *Registry[T]) MustRegister(name string, f Factory[T]) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Build constructs the component registered under name. The options are
// deep-copied so factories may keep or modify them.
func (r *Registry[T]) Build(name string, opts params.Params) (T, error) {
	r.mu.RLock()
	f, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		var zero T
		return zero, fmt.Errorf("%s %q: %w (available: %v)", r.kind, name, ErrNotFound, r.Names())
	}

	return f(opts.Clone())
}

// Has reports whether name is registered.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
