package runtime

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"k8s.io/apimachinery/pkg/runtime"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/events"
	"github.com/dtomasi/storectl/core/events/sinks"
)

// Runtime represents the storectl runtime that owns the catalog backend.
type Runtime interface {
	// Start initializes the backend (opens databases)
	Start(ctx context.Context) error

	// Stop releases the backend
	Stop(ctx context.Context) error

	// Catalog returns the client every operation is forwarded to
	Catalog() catalog.Client

	// EventRecorder returns an event recorder for the specified component.
	// Without a started event system the recorder discards events.
	EventRecorder(component string) events.EventRecorder

	// IsStarted returns true if the runtime has been started
	IsStarted() bool
}

// starter is implemented by backends that need to be opened before use.
type starter interface {
	Start(ctx context.Context) error
}

// storeRuntime implements the Runtime interface
type storeRuntime struct {
	mu               sync.RWMutex
	client           catalog.Client
	logger           *zap.Logger
	scheme           *runtime.Scheme
	enableEvents     bool
	eventLevel       zapcore.Level
	eventBroadcaster events.EventBroadcaster
	started          bool
	stopped          bool
}

// Option is a functional option for configuring the runtime
type Option func(*storeRuntime)

// WithLogger sets the runtime logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *storeRuntime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEvents controls whether product events are recorded. Events are logged
// through the runtime logger at level; warnings one level higher.
func WithEvents(enabled bool, level zapcore.Level) Option {
	return func(r *storeRuntime) {
		r.enableEvents = enabled
		r.eventLevel = level
	}
}

// NewRuntime creates a runtime around the given catalog client.
func NewRuntime(client catalog.Client, opts ...Option) (Runtime, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client cannot be nil")
	}

	scheme := runtime.NewScheme()
	if err := storev1alpha1.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("failed to register product types: %w", err)
	}

	r := &storeRuntime{
		client:       client,
		logger:       zap.NewNop(),
		scheme:       scheme,
		enableEvents: true,
		eventLevel:   zapcore.DebugLevel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start initializes the backend
func (r *storeRuntime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("runtime is already started")
	}
	if r.stopped {
		return fmt.Errorf("runtime is stopped")
	}

	if s, ok := r.client.(starter); ok {
		if err := s.Start(ctx); err != nil {
			return fmt.Errorf("failed to start %s backend: %w", r.client.Name(), err)
		}
	}

	if r.enableEvents {
		r.initializeEventSystem()
	}

	r.started = true
	r.logger.Debug("runtime started", zap.String("backend", r.client.Name()))
	return nil
}

// Stop releases the backend. Stopping a runtime that was never started is a no-op.
func (r *storeRuntime) Stop(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return nil
	}
	r.started = false
	r.stopped = true

	// Deliver the pending events before the backend goes away
	if r.eventBroadcaster != nil {
		r.eventBroadcaster.Shutdown()
	}

	if c, ok := r.client.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to stop %s backend: %w", r.client.Name(), err)
		}
	}

	r.logger.Debug("runtime stopped", zap.String("backend", r.client.Name()))
	return nil
}

// Catalog returns the catalog client
func (r *storeRuntime) Catalog() catalog.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// EventRecorder returns an event recorder for the specified component
func (r *storeRuntime) EventRecorder(component string) events.EventRecorder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.eventBroadcaster == nil {
		return events.NewNopRecorder()
	}
	return r.eventBroadcaster.NewRecorder(r.scheme, events.NewEventSource(component))
}

// IsStarted returns true if the runtime has been started
func (r *storeRuntime) IsStarted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started
}

// initializeEventSystem sets up the broadcaster and its log sink. r.mu must be held.
func (r *storeRuntime) initializeEventSystem() {
	r.eventBroadcaster = events.NewEventBroadcaster(events.EventBroadcasterOptions{})
	r.eventBroadcaster.StartRecordingToSink(sinks.NewLogSink(r.logger.Named("events"), r.eventLevel))
}
