package bot

import "sync"

// Registry collects bot modules for the lifecycle to load.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a module in registration order.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, m)
}

// Modules returns a copy of the registered modules, so later registrations
// do not show up in an already-taken snapshot.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

// The process-wide registry. Module packages register themselves here from
// init(), so importing a module package is what enables it.
var globalRegistry = NewRegistry()

// Register adds a module to the process-wide registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns every module in the process-wide registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry swaps in a fresh process-wide registry. Test use only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
