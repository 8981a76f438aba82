package backend

import (
	"fmt"

	"github.com/vyrodovalexey/poolgw/internal/config"
)

// Registry holds the service pools in configured order. A registry is
// immutable once built; configuration reloads build a new one.
type Registry struct {
	pools  []*ServicePool
	byName map[string]*ServicePool
}

// RegistryOption is a functional option for building a registry.
type RegistryOption func(*registryOptions)

type registryOptions struct {
	previous *Registry
}

// WithPreviousRegistry carries the cursor over from pools of prev whose
// name and instance list are unchanged. The cursor is copied once while
// prev may still be serving, so selections made on prev after the copy
// are not reflected in the new pool.
func WithPreviousRegistry(prev *Registry) RegistryOption {
	return func(o *registryOptions) {
		o.previous = prev
	}
}

// NewRegistry builds pools for the given services.
func NewRegistry(services []config.ServiceConfig, opts ...RegistryOption) (*Registry, error) {
	var o registryOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := &Registry{
		pools:  make([]*ServicePool, 0, len(services)),
		byName: make(map[string]*ServicePool, len(services)),
	}

	for _, svc := range services {
		if _, exists := r.byName[svc.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePool, svc.Name)
		}

		pool, err := NewServicePool(svc.Name, svc.Instances, WithTitle(svc.Title()))
		if err != nil {
			return nil, err
		}

		if o.previous != nil {
			if old, ok := o.previous.Get(svc.Name); ok && sameInstances(old, pool) {
				pool.cursor = old.Cursor()
			}
		}

		r.pools = append(r.pools, pool)
		r.byName[svc.Name] = pool
	}

	return r, nil
}

// Get returns the pool with the given name.
func (r *Registry) Get(name string) (*ServicePool, bool) {
	pool, ok := r.byName[name]
	return pool, ok
}

// Pools returns the pools in configured order.
func (r *Registry) Pools() []*ServicePool {
	out := make([]*ServicePool, len(r.pools))
	copy(out, r.pools)
	return out
}

// Names returns the pool names in configured order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pools))
	for _, p := range r.pools {
		names = append(names, p.Name())
	}
	return names
}

// Len returns the number of pools.
func (r *Registry) Len() int {
	return len(r.pools)
}

func sameInstances(a, b *ServicePool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.instances {
		if a.instances[i].Address != b.instances[i].Address {
			return false
		}
	}
	return true
}
