package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Rating is the aggregated customer rating of a product.
type Rating struct {
	// Rate is the average score between 0 and 5
	Rate float64 `json:"rate"`

	// Count is the number of ratings the average is based on
	Count int `json:"count"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster,shortName=p
// +kubebuilder:printcolumn:name="ID",type=integer,JSONPath=`.id`
// +kubebuilder:printcolumn:name="Title",type=string,JSONPath=`.title`
// +kubebuilder:printcolumn:name="Price",type=number,JSONPath=`.price`
// +kubebuilder:printcolumn:name="Category",type=string,JSONPath=`.category`

// Product is a single catalog entry. Field names follow the upstream API so a
// Product can be decoded straight from a catalog response.
type Product struct {
	metav1.TypeMeta `json:",inline"`

	// ID is assigned by the catalog on creation
	// +optional
	ID int `json:"id,omitempty"`

	// Title is the display name of the product
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MaxLength=200
	Title string `json:"title"`

	// Price is the unit price in dollars
	// +kubebuilder:validation:CEL:rule="self > 0",message="price must be a positive number"
	Price float64 `json:"price"`

	// Description provides details about the product
	// +optional
	Description string `json:"description,omitempty"`

	// Category is the name of the category this product belongs to
	// +kubebuilder:validation:Required
	Category string `json:"category"`

	// Image is the URL of the product picture
	// +optional
	Image string `json:"image,omitempty"`

	// Rating is reported by the catalog and ignored on create
	// +optional
	Rating *Rating `json:"rating,omitempty"`
}

// +kubebuilder:object:root=true

// ProductList contains a list of Product
type ProductList struct {
	metav1.TypeMeta `json:",inline"`
	Items           []Product `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Product{}, &ProductList{})
}
