package printers

import (
	"k8s.io/apimachinery/pkg/runtime"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// extractItems returns the individual objects of a list, or the object itself.
func extractItems(obj runtime.Object) []runtime.Object {
	switch list := obj.(type) {
	case nil:
		return nil
	case *storev1alpha1.ProductList:
		objects := make([]runtime.Object, 0, len(list.Items))
		for i := range list.Items {
			objects = append(objects, &list.Items[i])
		}
		return objects
	case *storev1alpha1.CategoryList:
		objects := make([]runtime.Object, 0, len(list.Items))
		for i := range list.Items {
			objects = append(objects, &list.Items[i])
		}
		return objects
	default:
		return []runtime.Object{obj}
	}
}

// documentOf returns the value serialized by the JSON and YAML printers. Lists
// are printed the way the catalog API returns them: products as an array and
// categories as an array of names.
func documentOf(obj runtime.Object) interface{} {
	switch list := obj.(type) {
	case *storev1alpha1.ProductList:
		if list.Items == nil {
			return []storev1alpha1.Product{}
		}
		return list.Items
	case *storev1alpha1.CategoryList:
		return list.Names()
	case *storev1alpha1.Category:
		return list.Name
	default:
		return obj
	}
}
