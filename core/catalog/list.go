package catalog

import (
	"sort"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// ApplyListOptions filters, orders and truncates products the way the catalog
// API does: category match first, then id order, then limit. It is used by
// the offline backends. The input slice is not modified.
func ApplyListOptions(products []storev1alpha1.Product, opts ListOptions) []storev1alpha1.Product {
	out := make([]storev1alpha1.Product, 0, len(products))
	for i := range products {
		if opts.Category != "" && products[i].Category != opts.Category {
			continue
		}
		out = append(out, *products[i].DeepCopy())
	}

	sort.SliceStable(out, func(i, j int) bool {
		if opts.Sort == SortDesc {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

// CategoriesOf returns the sorted distinct categories of the given products.
func CategoriesOf(products []storev1alpha1.Product) []string {
	seen := make(map[string]struct{}, len(products))
	var names []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		names = append(names, p.Category)
	}
	sort.Strings(names)
	return names
}
