package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/codiplaykz/blockly"
)

// Registry holds block type definitions by name. The zero value is not
// usable; call New.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*blockly.BlockType
}

// compile-time check that Registry satisfies blockly.TypeResolver.
var _ blockly.TypeResolver = (*Registry)(nil)

// New returns an empty registry.
func New() *Registry {
	return &Registry{types: make(map[string]*blockly.BlockType)}
}

// Register validates bt and stores it, replacing any definition already
// held under the same name.
func (r *Registry) Register(bt *blockly.BlockType) error {
	if err := bt.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[bt.Name] = bt
	return nil
}

// Deregister removes the named definition, if present.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.types, name)
}

// ResolveType implements blockly.TypeResolver.
func (r *Registry) ResolveType(name string) (*blockly.BlockType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bt, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", blockly.ErrUnknownType, name)
	}
	return bt, nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for name := range r.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
