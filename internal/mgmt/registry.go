package mgmt

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

type registration struct {
	name ObjectName
	bean Bean
}

// Registry is an in-memory management registry.
type Registry struct {
	mu    sync.RWMutex
	beans map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{beans: make(map[string]registration)}
}

// Register adds bean under name.
func (r *Registry) Register(name ObjectName, bean Bean) (ObjectInstance, error) {
	if name.IsPattern() {
		return ObjectInstance{}, fmt.Errorf("%w: %s", ErrPatternNotAllowed, name)
	}
	key := name.Canonical()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.beans[key]; exists {
		return ObjectInstance{}, fmt.Errorf("%w: %s", ErrInstanceExists, name)
	}
	r.beans[key] = registration{name: name, bean: bean}
	return ObjectInstance{Name: name, ClassName: bean.Info().ClassName}, nil
}

// Unregister removes the bean registered under name.
func (r *Registry) Unregister(name ObjectName) error {
	key := name.Canonical()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.beans[key]; !exists {
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, name)
	}
	delete(r.beans, key)
	return nil
}

// Query returns every instance whose name matches pattern, ordered by
// canonical name. A concrete name yields at most one instance.
func (r *Registry) Query(pattern ObjectName) ([]ObjectInstance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ObjectInstance
	for _, reg := range r.beans {
		if pattern.Matches(reg.name) {
			out = append(out, ObjectInstance{Name: reg.name, ClassName: reg.bean.Info().ClassName})
		}
	}
	slices.SortFunc(out, func(a, b ObjectInstance) int {
		return strings.Compare(a.Name.Canonical(), b.Name.Canonical())
	})
	return out, nil
}

// Describe returns a copy of the metadata of the bean registered under name.
func (r *Registry) Describe(name ObjectName) (BeanInfo, error) {
	reg, err := r.lookup(name)
	if err != nil {
		return BeanInfo{}, err
	}
	return reg.bean.Info().Clone(), nil
}

// Attribute reads one attribute of the bean registered under name.
func (r *Registry) Attribute(name ObjectName, attribute string) (any, error) {
	reg, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return reg.bean.Attribute(attribute)
}

// Count returns the number of registered beans.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.beans)
}

func (r *Registry) lookup(name ObjectName) (registration, error) {
	if name.IsPattern() {
		return registration{}, fmt.Errorf("%w: %s", ErrPatternNotAllowed, name)
	}
	r.mu.RLock()
	reg, ok := r.beans[name.Canonical()]
	r.mu.RUnlock()
	if !ok {
		return registration{}, fmt.Errorf("%w: %s", ErrInstanceNotFound, name)
	}
	return reg, nil
}
