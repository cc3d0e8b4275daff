package blocks

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps schema group names to block kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[string]Kind),
	}
}

// Register adds a kind by its Group(). Duplicate groups return an error.
func (r *Registry) Register(k Kind) error {
	if k == nil {
		return fmt.Errorf("blocks: kind is required")
	}
	group := k.Group()
	if group == "" {
		return fmt.Errorf("blocks: kind group is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[group]; exists {
		return fmt.Errorf("blocks: kind for group %q already registered", group)
	}
	r.kinds[group] = k
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(k Kind) {
	if err := r.Register(k); err != nil {
		panic(err)
	}
}

// Get returns the kind bound to group.
func (r *Registry) Get(group string) (Kind, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	k, ok := r.kinds[group]
	return k, ok
}

// Groups returns the registered group names, sorted.
func (r *Registry) Groups() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
