// Package handlers provides operation handlers for storectl.
// These handlers implement kubectl-compatible patterns on top of a catalog.Client
// and are shared by the cobra commands and the web server, without creating
// cobra commands themselves.
package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/defaulting"
	"github.com/dtomasi/storectl/core/events"
	"github.com/dtomasi/storectl/core/validation"
)

// GetHandler handles GET operations for products.
type GetHandler interface {
	// Handle executes a get operation based on the provided request
	Handle(ctx context.Context, req *GetRequest) (*GetResponse, error)
}

// CreateHandler handles CREATE operations for products.
type CreateHandler interface {
	// Handle executes a create operation based on the provided request
	Handle(ctx context.Context, req *CreateRequest) (*CreateResponse, error)
}

// ApplyHandler handles APPLY operations for products (declarative management).
type ApplyHandler interface {
	// Handle executes an apply operation based on the provided request
	Handle(ctx context.Context, req *ApplyRequest) (*ApplyResponse, error)
}

// DeleteHandler handles DELETE operations for products.
type DeleteHandler interface {
	// Handle executes a delete operation based on the provided request
	Handle(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error)
}

// CategoriesHandler lists product categories.
type CategoriesHandler interface {
	// Handle executes a categories listing
	Handle(ctx context.Context) (*CategoriesResponse, error)
}

// HandlerFactory creates handlers with a given client.
type HandlerFactory struct {
	client    catalog.Client
	defaulter defaulting.Defaulter
	validator validation.Validator
	recorder  events.EventRecorder
	logger    *zap.Logger
}

// FactoryOption configures a HandlerFactory.
type FactoryOption func(*HandlerFactory)

// WithDefaulter replaces the product defaulter.
func WithDefaulter(d defaulting.Defaulter) FactoryOption {
	return func(f *HandlerFactory) {
		f.defaulter = d
	}
}

// WithValidator replaces the product validator.
func WithValidator(v validation.Validator) FactoryOption {
	return func(f *HandlerFactory) {
		f.validator = v
	}
}

// WithRecorder sets the recorder receiving product lifecycle events.
func WithRecorder(r events.EventRecorder) FactoryOption {
	return func(f *HandlerFactory) {
		if r != nil {
			f.recorder = r
		}
	}
}

// WithLogger sets the logger used by all handlers.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *HandlerFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHandlerFactory creates a new handler factory with the given client. Unless
// replaced by options, products are defaulted with defaulting.ProductStrategy and
// checked against validation.ProductRules before they are written.
func NewHandlerFactory(client catalog.Client, opts ...FactoryOption) (*HandlerFactory, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog client cannot be nil")
	}

	f := &HandlerFactory{
		client:   client,
		recorder: events.NewNopRecorder(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.defaulter == nil {
		f.defaulter = defaulting.NewProductDefaulter()
	}
	if f.validator == nil {
		v, err := validation.NewProductValidator()
		if err != nil {
			return nil, fmt.Errorf("failed to create product validator: %w", err)
		}
		f.validator = v
	}

	return f, nil
}

// Client returns the catalog client the handlers forward to.
func (f *HandlerFactory) Client() catalog.Client {
	return f.client
}

// Get creates a new GetHandler.
func (f *HandlerFactory) Get() GetHandler {
	return &getHandler{client: f.client}
}

// Create creates a new CreateHandler.
func (f *HandlerFactory) Create() CreateHandler {
	return &createHandler{
		client:   f.client,
		prepare:  f.prepare,
		recorder: f.recorder,
		logger:   f.logger,
	}
}

// Apply creates a new ApplyHandler.
func (f *HandlerFactory) Apply() ApplyHandler {
	return &applyHandler{
		client:   f.client,
		prepare:  f.prepare,
		recorder: f.recorder,
		logger:   f.logger,
	}
}

// Delete creates a new DeleteHandler.
func (f *HandlerFactory) Delete() DeleteHandler {
	return &deleteHandler{client: f.client, recorder: f.recorder, logger: f.logger}
}

// Categories creates a new CategoriesHandler.
func (f *HandlerFactory) Categories() CategoriesHandler {
	return &categoriesHandler{client: f.client}
}
