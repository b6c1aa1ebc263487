package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/events"
)

// createHandler implements CreateHandler.
type createHandler struct {
	client   catalog.Client
	prepare  func(context.Context, *storev1alpha1.Product) error
	recorder events.EventRecorder
	logger   *zap.Logger
}

// Handle executes a create operation. The request product is not modified.
func (h *createHandler) Handle(ctx context.Context, req *CreateRequest) (*CreateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("create request cannot be nil")
	}

	if req.Product == nil {
		return nil, fmt.Errorf("create request must specify a product")
	}

	product := req.Product.DeepCopy()
	product.ID = 0
	if err := h.prepare(ctx, product); err != nil {
		recordPrepareFailure(h.recorder, product, err)
		return nil, err
	}

	if req.DryRun {
		h.logger.Debug("dry run, product not sent", zap.String("title", product.Title))
		return &CreateResponse{Product: product, Created: false}, nil
	}

	created, err := h.client.Create(ctx, product)
	if err != nil {
		h.recorder.Eventf(product, events.EventTypeWarning, events.ReasonFailedCreate,
			"Failed to create product %q: %v", product.Title, err)
		return nil, fmt.Errorf("failed to create product %q: %w", product.Title, err)
	}
	h.recorder.Eventf(created, events.EventTypeNormal, events.ReasonCreated, "Created product %q", created.Title)

	h.logger.Debug("product created",
		zap.Int("id", created.ID),
		zap.String("title", created.Title),
		zap.String("backend", h.client.Name()))

	return &CreateResponse{
		Product: created,
		Created: true,
	}, nil
}
