package backend

import (
	"fmt"
	"sync"
)

// ServicePool is the ordered set of instances serving one service,
// together with its round-robin cursor.
//
// The instance list is fixed at construction. The cursor is the only
// mutable state and is guarded by mu; it is never held across I/O.
type ServicePool struct {
	name      string
	title     string
	instances []Instance

	mu      sync.Mutex
	cursor  int
	version uint64
}

// ServicePoolOption is a functional option for configuring a pool.
type ServicePoolOption func(*ServicePool)

// WithTitle sets the human readable name used in client-facing errors.
func WithTitle(title string) ServicePoolOption {
	return func(p *ServicePool) {
		if title != "" {
			p.title = title
		}
	}
}

// NewServicePool creates a pool from the ordered instance base URLs.
// The cursor starts at 0.
func NewServicePool(name string, addresses []string, opts ...ServicePoolOption) (*ServicePool, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("pool %s: %w", name, ErrNoInstances)
	}

	instances := make([]Instance, 0, len(addresses))
	for _, addr := range addresses {
		inst, err := ParseInstance(name, addr)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %w", name, err)
		}
		instances = append(instances, inst)
	}

	p := &ServicePool{
		name:      name,
		title:     name,
		instances: instances,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the pool name.
func (p *ServicePool) Name() string {
	return p.name
}

// Title returns the human readable pool name used in client-facing errors.
func (p *ServicePool) Title() string {
	return p.title
}

// Len returns the number of instances.
func (p *ServicePool) Len() int {
	return len(p.instances)
}

// Instance returns the instance at index i.
func (p *ServicePool) Instance(i int) Instance {
	return p.instances[i]
}

// Instances returns a copy of the instance list in configured order.
func (p *ServicePool) Instances() []Instance {
	out := make([]Instance, len(p.instances))
	copy(out, p.instances)
	return out
}

// Cursor returns the index at which the next selection starts scanning.
func (p *ServicePool) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// position returns the current cursor and the version it was read at.
func (p *ServicePool) position() (cursor int, version uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor, p.version
}

// advance moves the cursor past chosen if no other selection has moved
// it since version was read. It reports whether the cursor was moved.
func (p *ServicePool) advance(version uint64, chosen int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.version != version {
		return false
	}
	p.cursor = (chosen + 1) % len(p.instances)
	p.version++
	return true
}
