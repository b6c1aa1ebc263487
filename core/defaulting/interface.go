package defaulting

import (
	"context"

	"k8s.io/apimachinery/pkg/runtime"
)

// Defaulter provides the interface for applying default values to objects.
// Default must be idempotent and safe to call multiple times.
type Defaulter interface {
	Default(ctx context.Context, obj runtime.Object) error
}

// DefaultingStrategy defines how to apply default values for a specific object type.
// Implementations should be thread-safe as they may be called concurrently.
type DefaultingStrategy interface {
	// Apply applies default values to the object based on the configured strategy.
	Apply(ctx context.Context, obj runtime.Object) error

	// SupportsType returns true if this strategy can handle the given object type.
	SupportsType(obj runtime.Object) bool
}

// DefaultingManager coordinates multiple defaulting strategies.
type DefaultingManager interface {
	Defaulter

	// RegisterStrategy registers a defaulting strategy.
	RegisterStrategy(strategy DefaultingStrategy) error

	// HasDefaultsFor returns true if a registered strategy supports the object type.
	HasDefaultsFor(obj runtime.Object) bool
}
