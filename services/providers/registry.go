package providers

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrProviderNotFound is returned when no builder is registered for a backend
	ErrProviderNotFound = errors.New("provider not found")

	// ErrProviderAlreadyRegistered is returned when trying to register a duplicate backend
	ErrProviderAlreadyRegistered = errors.New("provider already registered")
)

// Builder creates a provider instance from its configuration
type Builder func(config ProviderConfig) (Provider, error)

// Registry maps backend names to provider builders.
// The gateway builds exactly one provider at startup from the configured backend.
type Registry struct {
	mu       sync.RWMutex
	builders map[string]Builder
}

// NewRegistry creates a new provider registry
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]Builder),
	}
}

// Register adds a builder under name
func (r *Registry) Register(name string, builder Builder) error {
	if name == "" {
		return errors.New("provider name cannot be empty")
	}
	if builder == nil {
		return errors.New("provider builder cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[name]; exists {
		return ErrProviderAlreadyRegistered
	}
	r.builders[name] = builder
	return nil
}

// Build creates the provider registered under name
func (r *Registry) Build(name string, config ProviderConfig) (Provider, error) {
	r.mu.RLock()
	builder, exists := r.builders[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrProviderNotFound, name)
	}

	provider, err := builder(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider %s: %w", name, err)
	}
	return provider, nil
}

// Names returns the registered backend names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
