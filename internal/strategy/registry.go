package strategy

import (
	"sync"

	"github.com/stratlab-dev/stratbt/internal/types"
	"github.com/stratlab-dev/stratbt/pkg/errors"
)

// Definition binds a strategy key to its factory and default parameters.
// Exactly one of New and NewPairs is set.
type Definition struct {
	Type          types.StrategyType
	DefaultParams types.StrategyParams
	New           func() Strategy
	NewPairs      func() PairsStrategy
}

// Pairs reports whether the definition describes a two-instrument strategy.
func (d Definition) Pairs() bool {
	return d.NewPairs != nil
}

// Registry manages all available strategy definitions.
type Registry interface {
	Register(def Definition) error
	Get(name types.StrategyType) (Definition, error)
	List() []types.StrategyType
	Remove(name types.StrategyType) error
}

// RegistryV1 manages all available strategy definitions.
type RegistryV1 struct {
	definitions map[types.StrategyType]Definition
	mu          sync.RWMutex
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() Registry {
	return &RegistryV1{
		definitions: make(map[types.StrategyType]Definition),
		mu:          sync.RWMutex{},
	}
}

// DefaultRegistry creates a registry with all built-in strategies registered.
func DefaultRegistry() Registry {
	registry := NewRegistry()

	for _, def := range []Definition{
		SMACrossoverDefinition(),
		BollingerReversionDefinition(),
		RSIReversionDefinition(),
		MomentumDefinition(),
		BreakoutDefinition(),
		PairsTradingDefinition(),
	} {
		// Registration of the built-ins cannot collide.
		_ = registry.Register(def)
	}

	return registry
}

// Register adds a definition to the registry.
func (r *RegistryV1) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Type]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", def.Type)
	}

	r.definitions[def.Type] = def

	return nil
}

// Get retrieves a definition by name.
func (r *RegistryV1) Get(name types.StrategyType) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.definitions[name]
	if !exists {
		return Definition{}, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	return def, nil
}

// List returns all registered strategy names.
func (r *RegistryV1) List() []types.StrategyType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]types.StrategyType, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}

	return names
}

// Remove removes a definition from the registry.
func (r *RegistryV1) Remove(name types.StrategyType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	delete(r.definitions, name)

	return nil
}
