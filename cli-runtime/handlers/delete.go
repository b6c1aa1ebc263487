package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
	"github.com/dtomasi/storectl/core/events"
)

// deleteHandler implements DeleteHandler.
type deleteHandler struct {
	client   catalog.Client
	recorder events.EventRecorder
	logger   *zap.Logger
}

// Handle executes a delete operation.
func (h *deleteHandler) Handle(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("delete request cannot be nil")
	}

	if req.ID <= 0 {
		return nil, fmt.Errorf("delete request must specify a product id")
	}

	deleted, err := h.client.Delete(ctx, req.ID)
	if err != nil {
		if req.IgnoreNotFound && apierrors.IsNotFound(err) {
			h.logger.Debug("product not found, ignoring", zap.Int("id", req.ID))
			return &DeleteResponse{}, nil
		}
		h.recorder.Eventf(&storev1alpha1.Product{ID: req.ID}, events.EventTypeWarning, events.ReasonFailedDelete,
			"Failed to delete product %d: %v", req.ID, err)
		return nil, fmt.Errorf("failed to delete product %d: %w", req.ID, err)
	}
	h.recorder.Eventf(deleted, events.EventTypeNormal, events.ReasonDeleted, "Deleted product %q", deleted.Title)

	h.logger.Debug("product deleted", zap.Int("id", req.ID), zap.String("backend", h.client.Name()))
	return &DeleteResponse{Deleted: deleted}, nil
}
