package handlers

import (
	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/core/catalog"
)

// GetRequest represents a request to get one or more products.
type GetRequest struct {
	// ID identifies a single product; nil lists products
	ID *int
	// ListOptions narrow the listing (when ID is nil)
	ListOptions catalog.ListOptions
}

// GetResponse contains the result of a get operation.
type GetResponse struct {
	// Product contains the single product (when ID was provided)
	Product *storev1alpha1.Product
	// List contains the listed products
	List *storev1alpha1.ProductList
	// IsCollection indicates if this represents multiple objects
	IsCollection bool
}

// CreateRequest represents a request to create a product.
type CreateRequest struct {
	// Product is the product to create
	Product *storev1alpha1.Product
	// DryRun defaults and validates the product without sending it
	DryRun bool
}

// CreateResponse contains the result of a create operation.
type CreateResponse struct {
	// Product is the created product as returned by the catalog
	Product *storev1alpha1.Product
	// Created indicates if the product was actually sent to the catalog
	Created bool
}

// ApplyRequest represents a request to apply products declaratively.
type ApplyRequest struct {
	// Products are created when they carry no id or their id is unknown, updated otherwise
	Products []*storev1alpha1.Product
	// DryRun computes the operations without writing anything
	DryRun bool
}

// ApplyResponse contains the result of an apply operation.
type ApplyResponse struct {
	// Results holds one entry per requested product, in request order
	Results []ApplyResult
}

// ApplyResult is the outcome for a single product.
type ApplyResult struct {
	// Product is the applied product
	Product *storev1alpha1.Product
	// Applied indicates the operation performed
	Applied ApplyOperation
}

// ApplyOperation indicates what operation was performed during apply.
type ApplyOperation string

const (
	// ApplyOperationCreated indicates the product was created
	ApplyOperationCreated ApplyOperation = "created"
	// ApplyOperationUpdated indicates the product was updated
	ApplyOperationUpdated ApplyOperation = "updated"
	// ApplyOperationUnchanged indicates the product was unchanged
	ApplyOperationUnchanged ApplyOperation = "unchanged"
)

// DeleteRequest represents a request to delete a product.
type DeleteRequest struct {
	// ID identifies the product to delete
	ID int
	// IgnoreNotFound treats a missing product as success
	IgnoreNotFound bool
}

// DeleteResponse contains the result of a delete operation.
type DeleteResponse struct {
	// Deleted is the removed product, nil when it did not exist and IgnoreNotFound was set
	Deleted *storev1alpha1.Product
}

// CategoriesResponse contains the known categories.
type CategoriesResponse struct {
	Categories *storev1alpha1.CategoryList
}
