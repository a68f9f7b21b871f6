package capability

import (
	"fmt"
	"sync"
)

// Registry maps capability names to their handlers. Handlers are registered
// explicitly at startup; the router and orchestrator only ever invoke them
// through the one-method Handler interface.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a capability name. Registering the same name
// twice is an error; handlers are wired once at startup.
func (r *Registry) Register(name string, handler Handler) error {
	if name == "" {
		return fmt.Errorf("capability name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler for %s is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("capability %s already registered", name)
	}
	r.handlers[name] = handler
	return nil
}

// Get returns the handler for a capability name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[name]
	return handler, ok
}

// Names returns the registered capability names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
