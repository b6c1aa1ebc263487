package catalog

import (
	"context"
	"fmt"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// Client provides access to a product catalog. Implementations must be safe
// for concurrent use.
type Client interface {
	Reader
	Writer

	// Name returns a short identifier of the backend, e.g. "remote" or "memory"
	Name() string
}

// Reader knows how to read products and categories.
type Reader interface {
	// List retrieves the products matching the given options.
	List(ctx context.Context, opts ListOptions) (*storev1alpha1.ProductList, error)

	// Get retrieves a single product by id. A missing product is reported as
	// a NotFound error (apierrors.IsNotFound).
	Get(ctx context.Context, id int) (*storev1alpha1.Product, error)

	// Categories retrieves the category names known to the catalog.
	Categories(ctx context.Context) (*storev1alpha1.CategoryList, error)
}

// Writer knows how to create, update and delete products.
type Writer interface {
	// Create saves a new product and returns it as stored, including its id.
	Create(ctx context.Context, product *storev1alpha1.Product) (*storev1alpha1.Product, error)

	// Update replaces the product with the given id.
	Update(ctx context.Context, id int, product *storev1alpha1.Product) (*storev1alpha1.Product, error)

	// Delete removes the product with the given id and returns what was removed.
	Delete(ctx context.Context, id int) (*storev1alpha1.Product, error)
}

// Sort orders are the values accepted by ListOptions.Sort.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListOptions narrows a List call.
type ListOptions struct {
	// Limit caps the number of returned products; 0 means no limit
	Limit int
	// Sort orders products by id, one of "", "asc" or "desc"
	Sort string
	// Category restricts the result to a single category
	Category string
}

// Validate checks the options before they are sent to a backend.
func (o ListOptions) Validate() error {
	if o.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", o.Limit)
	}
	switch o.Sort {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("invalid sort order %q: must be %q or %q", o.Sort, SortAsc, SortDesc)
	}
	return nil
}
