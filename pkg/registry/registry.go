package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
)

// Registry maps names to items. One registration may claim several names,
// which then form a group sharing the item.
type Registry[T any] struct {
	mu     sync.RWMutex
	items  map[string]T
	groups map[string][]string
}

// New creates an empty registry
func New[T any]() *Registry[T] {
	return &Registry[T]{
		items:  make(map[string]T),
		groups: make(map[string][]string),
	}
}

// Register claims names for item. Nothing is registered when any name is
// empty or already taken.
func (r *Registry[T]) Register(item T, names ...string) error {
	if len(names) == 0 {
		return errors.New(errors.ErrInvalidInput, "at least one name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		if name == "" {
			return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
		}
		if _, taken := r.items[name]; taken {
			return errors.Newf(errors.ErrAlreadyExists, "%q is already registered", name).
				WithDetail("name", name)
		}
	}

	group := append([]string(nil), names...)
	for _, name := range names {
		r.items[name] = item
		r.groups[name] = group
	}
	return nil
}

// Lookup returns the item registered under name and every name of its
// group, name included
func (r *Registry[T]) Lookup(name string) (T, []string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[name]
	if !ok {
		var zero T
		return zero, nil, errors.Newf(errors.ErrNotFound, "%q is not registered", name).
			WithDetail("name", name)
	}
	return item, append([]string(nil), r.groups[name]...), nil
}

// Has reports whether name is registered
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.items[name]
	return ok
}

// Names returns every registered name, sorted
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustRegister registers item and panics on failure. Use it for built-in
// registrations, where a clash is a programming error.
func MustRegister[T any](r *Registry[T], item T, names ...string) {
	if err := r.Register(item, names...); err != nil {
		panic(fmt.Sprintf("failed to register %v: %v", names, err))
	}
}
