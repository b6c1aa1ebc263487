package defaulting

import (
	"context"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// DefaultImage is used for products created without an image URL.
const DefaultImage = "https://via.placeholder.com/640x480.png"

// DefaultDescription returns the description given to a product created without one.
func DefaultDescription(title string) string {
	return "Description of product " + title
}

// ProductStrategy trims user input and fills in the description and image of new products.
type ProductStrategy struct{}

var _ DefaultingStrategy = ProductStrategy{}

// SupportsType implements DefaultingStrategy.
func (ProductStrategy) SupportsType(obj runtime.Object) bool {
	_, ok := obj.(*storev1alpha1.Product)
	return ok
}

// Apply implements DefaultingStrategy.
func (ProductStrategy) Apply(_ context.Context, obj runtime.Object) error {
	p, ok := obj.(*storev1alpha1.Product)
	if !ok {
		return fmt.Errorf("expected *Product, got %T", obj)
	}

	p.Title = strings.TrimSpace(p.Title)
	p.Category = strings.TrimSpace(p.Category)
	p.Image = strings.TrimSpace(p.Image)

	if strings.TrimSpace(p.Description) == "" {
		p.Description = DefaultDescription(p.Title)
	}
	if p.Image == "" {
		p.Image = DefaultImage
	}

	return nil
}

// NewProductDefaulter returns a manager with ProductStrategy registered.
func NewProductDefaulter() DefaultingManager {
	return NewManager(ProductStrategy{})
}
