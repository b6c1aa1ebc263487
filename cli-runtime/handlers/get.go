package handlers

import (
	"context"
	"fmt"

	"github.com/dtomasi/storectl/core/catalog"
)

// getHandler implements GetHandler.
type getHandler struct {
	client catalog.Client
}

// Handle executes a get operation.
func (h *getHandler) Handle(ctx context.Context, req *GetRequest) (*GetResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("get request cannot be nil")
	}

	// If a specific id is provided, get a single product
	if req.ID != nil {
		return h.getSingle(ctx, *req.ID)
	}

	// Otherwise, list products
	return h.getList(ctx, req.ListOptions)
}

// getSingle retrieves a single product by id.
func (h *getHandler) getSingle(ctx context.Context, id int) (*GetResponse, error) {
	product, err := h.client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	return &GetResponse{
		Product:      product,
		IsCollection: false,
	}, nil
}

// getList retrieves multiple products.
func (h *getHandler) getList(ctx context.Context, opts catalog.ListOptions) (*GetResponse, error) {
	list, err := h.client.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &GetResponse{
		List:         list,
		IsCollection: true,
	}, nil
}

// categoriesHandler implements CategoriesHandler.
type categoriesHandler struct {
	client catalog.Client
}

// Handle lists the categories known to the catalog.
func (h *categoriesHandler) Handle(ctx context.Context) (*CategoriesResponse, error) {
	categories, err := h.client.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return &CategoriesResponse{Categories: categories}, nil
}
