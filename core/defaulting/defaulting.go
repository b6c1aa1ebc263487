package defaulting

import (
	"context"
	"fmt"
	"sync"

	"k8s.io/apimachinery/pkg/runtime"
)

// manager is the default implementation of DefaultingManager.
type manager struct {
	mu         sync.RWMutex
	strategies []DefaultingStrategy
}

// NewManager creates a new defaulting manager.
func NewManager(strategies ...DefaultingStrategy) DefaultingManager {
	m := &manager{}
	for _, s := range strategies {
		if s != nil {
			m.strategies = append(m.strategies, s)
		}
	}
	return m
}

// Default applies every registered strategy that supports the object, in registration order.
func (m *manager) Default(ctx context.Context, obj runtime.Object) error {
	if obj == nil {
		return fmt.Errorf("cannot apply defaults to nil object")
	}

	m.mu.RLock()
	strategies := make([]DefaultingStrategy, len(m.strategies))
	copy(strategies, m.strategies)
	m.mu.RUnlock()

	for _, strategy := range strategies {
		if !strategy.SupportsType(obj) {
			continue
		}
		if err := strategy.Apply(ctx, obj); err != nil {
			return fmt.Errorf("failed to apply defaulting strategy: %w", err)
		}
	}

	return nil
}

// RegisterStrategy registers a defaulting strategy for objects.
func (m *manager) RegisterStrategy(strategy DefaultingStrategy) error {
	if strategy == nil {
		return fmt.Errorf("strategy cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies = append(m.strategies, strategy)

	return nil
}

// HasDefaultsFor returns true if defaults are configured for the given object type.
func (m *manager) HasDefaultsFor(obj runtime.Object) bool {
	if obj == nil {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, strategy := range m.strategies {
		if strategy.SupportsType(obj) {
			return true
		}
	}
	return false
}
