package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/api/equality"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/events"
)

// applyHandler implements ApplyHandler.
type applyHandler struct {
	client   catalog.Client
	prepare  func(context.Context, *storev1alpha1.Product) error
	recorder events.EventRecorder
	logger   *zap.Logger
}

// Handle executes an apply operation. Products are applied in order and the
// first failure stops the run; results up to that point are returned with the error.
func (h *applyHandler) Handle(ctx context.Context, req *ApplyRequest) (*ApplyResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("apply request cannot be nil")
	}

	if len(req.Products) == 0 {
		return nil, fmt.Errorf("apply request must specify at least one product")
	}

	resp := &ApplyResponse{Results: make([]ApplyResult, 0, len(req.Products))}
	for i, p := range req.Products {
		if p == nil {
			return resp, fmt.Errorf("product %d is nil", i+1)
		}
		result, err := h.applyOne(ctx, p.DeepCopy(), req.DryRun)
		if err != nil {
			return resp, err
		}
		resp.Results = append(resp.Results, result)
	}

	return resp, nil
}

func (h *applyHandler) applyOne(ctx context.Context, desired *storev1alpha1.Product, dryRun bool) (ApplyResult, error) {
	if err := h.prepare(ctx, desired); err != nil {
		recordPrepareFailure(h.recorder, desired, err)
		return ApplyResult{}, err
	}

	if desired.ID == 0 {
		return h.create(ctx, desired, dryRun)
	}

	current, err := h.client.Get(ctx, desired.ID)
	if apierrors.IsNotFound(err) {
		// Unknown ids cannot be chosen by the client; the catalog assigns a new one.
		return h.create(ctx, desired, dryRun)
	}
	if err != nil {
		return ApplyResult{}, fmt.Errorf("failed to get product %d: %w", desired.ID, err)
	}

	// Ratings are owned by the catalog and not part of the desired state.
	desired.Rating = current.Rating
	if equality.Semantic.DeepEqual(current, desired) {
		return ApplyResult{Product: current, Applied: ApplyOperationUnchanged}, nil
	}

	if dryRun {
		return ApplyResult{Product: desired, Applied: ApplyOperationUpdated}, nil
	}

	updated, err := h.client.Update(ctx, desired.ID, desired)
	if err != nil {
		h.recorder.Eventf(desired, events.EventTypeWarning, events.ReasonFailedUpdate,
			"Failed to update product %d: %v", desired.ID, err)
		return ApplyResult{}, fmt.Errorf("failed to update product %d: %w", desired.ID, err)
	}
	h.recorder.Eventf(updated, events.EventTypeNormal, events.ReasonUpdated, "Updated product %q", updated.Title)
	h.logger.Debug("product updated", zap.Int("id", updated.ID), zap.String("backend", h.client.Name()))

	return ApplyResult{Product: updated, Applied: ApplyOperationUpdated}, nil
}

func (h *applyHandler) create(ctx context.Context, desired *storev1alpha1.Product, dryRun bool) (ApplyResult, error) {
	desired.ID = 0
	if dryRun {
		return ApplyResult{Product: desired, Applied: ApplyOperationCreated}, nil
	}

	created, err := h.client.Create(ctx, desired)
	if err != nil {
		h.recorder.Eventf(desired, events.EventTypeWarning, events.ReasonFailedCreate,
			"Failed to create product %q: %v", desired.Title, err)
		return ApplyResult{}, fmt.Errorf("failed to create product %q: %w", desired.Title, err)
	}
	h.recorder.Eventf(created, events.EventTypeNormal, events.ReasonCreated, "Created product %q", created.Title)
	h.logger.Debug("product created", zap.Int("id", created.ID), zap.String("backend", h.client.Name()))

	return ApplyResult{Product: created, Applied: ApplyOperationCreated}, nil
}
