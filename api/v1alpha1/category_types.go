package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Cluster,shortName=cat
// +kubebuilder:printcolumn:name="Name",type=string,JSONPath=`.name`

// Category is a product category known to the catalog. The upstream API only
// exposes category names, so that is all a Category carries.
type Category struct {
	metav1.TypeMeta `json:",inline"`

	// Name is the category identifier, e.g. "electronics"
	Name string `json:"name"`
}

// +kubebuilder:object:root=true

// CategoryList contains a list of Category
type CategoryList struct {
	metav1.TypeMeta `json:",inline"`
	Items           []Category `json:"items"`
}

// CategoryListFromNames builds a CategoryList from plain category names.
func CategoryListFromNames(names []string) *CategoryList {
	list := &CategoryList{Items: make([]Category, 0, len(names))}
	for _, name := range names {
		list.Items = append(list.Items, Category{Name: name})
	}
	return list
}

// Names returns the category names in list order.
func (l *CategoryList) Names() []string {
	names := make([]string, 0, len(l.Items))
	for _, c := range l.Items {
		names = append(names, c.Name)
	}
	return names
}

func init() {
	SchemeBuilder.Register(&Category{}, &CategoryList{})
}
