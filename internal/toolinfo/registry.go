package toolinfo

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"veribench/internal/logging"
)

// Registry maps verifier identifiers to their tool adapters.
// It is thread-safe and supports registration at runtime. Identifiers are
// case-insensitive; lookups normalize to lowercase.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under the given identifier.
// Returns an error if the identifier is already taken.
func (r *Registry) Register(identifier string, tool Tool) error {
	if tool == nil {
		return ErrToolNil
	}
	identifier = strings.ToLower(identifier)
	if identifier == "" {
		return ErrIdentifierEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[identifier]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, identifier)
	}
	r.tools[identifier] = tool

	logging.ToolsDebug("Registered tool: %s (adapter=%s)", identifier, tool.Name())
	return nil
}

// MustRegister registers a tool and panics on error.
// Use this for static registration at startup.
func (r *Registry) MustRegister(identifier string, tool Tool) {
	if err := r.Register(identifier, tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", identifier, err))
	}
}

// Lookup returns the tool registered under the identifier.
// Returns ErrToolNotFound for unknown identifiers.
func (r *Registry) Lookup(identifier string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[strings.ToLower(identifier)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, identifier)
	}
	return tool, nil
}

// Has returns true if a tool is registered under the identifier.
func (r *Registry) Has(identifier string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[strings.ToLower(identifier)]
	return ok
}

// Names returns all registered identifiers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
