// Package v1alpha1 contains API definitions for the product catalog served by
// the Fake Store API (Products and Categories). The types mirror the upstream
// JSON documents and are registered in a runtime.Scheme so that printers and
// the manifest codec can work with them like any other API object.

// +kubebuilder:object:generate=true
// +groupName=store.k1s.dtomasi.github.io
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is group version used to register these objects
	GroupVersion = schema.GroupVersion{Group: "store.k1s.dtomasi.github.io", Version: "v1alpha1"}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme.
	AddToScheme = SchemeBuilder.AddToScheme
)

var (
	// ProductGroupVersionKind is the GVK of a single Product.
	ProductGroupVersionKind = GroupVersion.WithKind("Product")
	// ProductListGroupVersionKind is the GVK of a ProductList.
	ProductListGroupVersionKind = GroupVersion.WithKind("ProductList")
	// CategoryGroupVersionKind is the GVK of a single Category.
	CategoryGroupVersionKind = GroupVersion.WithKind("Category")
	// CategoryListGroupVersionKind is the GVK of a CategoryList.
	CategoryListGroupVersionKind = GroupVersion.WithKind("CategoryList")

	// ProductGroupResource is used when reporting missing products. The group is
	// left empty so error messages read `products "7" not found`.
	ProductGroupResource = schema.GroupResource{Resource: "products"}
)
