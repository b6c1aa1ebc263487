// Package codec decodes product manifests given to `create -f` and `apply -f`.
//
// A manifest is a YAML or JSON stream. Every document is either a typed object
// (apiVersion/kind set to a Product or ProductList of the store group), a bare
// product in the shape the catalog API returns, or a JSON array of such products.
package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// unmarshalFunc represents a function that can unmarshal data into an object
type unmarshalFunc func(data []byte, v interface{}) error

// Decoder decodes product manifests using a scheme that knows the store types.
type Decoder struct {
	scheme *runtime.Scheme
}

// NewDecoder creates a decoder for the given scheme.
func NewDecoder(scheme *runtime.Scheme) *Decoder {
	return &Decoder{scheme: scheme}
}

// NewDefaultDecoder creates a decoder with a scheme holding only the store types.
func NewDefaultDecoder() (*Decoder, error) {
	scheme := runtime.NewScheme()
	if err := storev1alpha1.AddToScheme(scheme); err != nil {
		return nil, fmt.Errorf("failed to build scheme: %w", err)
	}
	return NewDecoder(scheme), nil
}

// DecodeProducts reads every document from r and returns the products in order.
func (d *Decoder) DecodeProducts(r io.Reader) ([]*storev1alpha1.Product, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(r))

	var products []*storev1alpha1.Product
	for n := 1; ; n++ {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read document %d: %w", n, err)
		}

		decoded, err := d.decodeDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", n, err)
		}
		products = append(products, decoded...)
	}

	if len(products) == 0 {
		return nil, fmt.Errorf("no products found in manifest")
	}
	return products, nil
}

// unmarshalYAML adapts yaml.Unmarshal to unmarshalFunc.
func unmarshalYAML(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

func (d *Decoder) decodeDocument(raw []byte) ([]*storev1alpha1.Product, error) {
	// Documents holding only a separator or comments convert to null.
	doc, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 || bytes.Equal(doc, []byte("null")) {
		return nil, nil
	}

	if doc[0] == '[' {
		var items []storev1alpha1.Product
		if err := unmarshalYAML(doc, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal product array: %w", err)
		}
		out := make([]*storev1alpha1.Product, 0, len(items))
		for i := range items {
			out = append(out, stripTypeMeta(&items[i]))
		}
		return out, nil
	}

	defaults := storev1alpha1.ProductGroupVersionKind
	obj, gvk, err := decodeObject(doc, &defaults, unmarshalYAML, d.scheme, "YAML")
	if err != nil {
		return nil, err
	}

	switch typed := obj.(type) {
	case *storev1alpha1.Product:
		return []*storev1alpha1.Product{stripTypeMeta(typed)}, nil
	case *storev1alpha1.ProductList:
		out := make([]*storev1alpha1.Product, 0, len(typed.Items))
		for i := range typed.Items {
			out = append(out, stripTypeMeta(&typed.Items[i]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported kind %q, expected Product or ProductList", gvk.Kind)
	}
}

// decodeObject reads the TypeMeta of data, creates the matching object from the
// scheme (falling back to defaults) and unmarshals data into it.
func decodeObject(data []byte, defaults *schema.GroupVersionKind,
	unmarshal unmarshalFunc, scheme *runtime.Scheme, format string) (runtime.Object, *schema.GroupVersionKind, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("cannot decode empty data")
	}

	var typeMeta runtime.TypeMeta
	if err := unmarshal(data, &typeMeta); err != nil {
		return nil, nil, fmt.Errorf("failed to decode TypeMeta: %w", err)
	}

	gvk := schema.FromAPIVersionAndKind(typeMeta.APIVersion, typeMeta.Kind)

	// Use defaults if TypeMeta is incomplete
	if defaults != nil {
		if gvk.Kind == "" {
			gvk.Kind = defaults.Kind
		}
		if typeMeta.APIVersion == "" {
			gvk.Group, gvk.Version = defaults.Group, defaults.Version
		}
	}
	if gvk.Kind == "" {
		return nil, nil, fmt.Errorf("cannot determine kind from data and no defaults provided")
	}

	obj, err := scheme.New(gvk)
	if err != nil {
		return nil, &gvk, fmt.Errorf("failed to create object for %v: %w", gvk, err)
	}

	if err := unmarshal(data, obj); err != nil {
		return nil, &gvk, fmt.Errorf("failed to unmarshal %s into object: %w", format, err)
	}

	return obj, &gvk, nil
}

// stripTypeMeta clears apiVersion and kind; products travel upstream without them.
func stripTypeMeta(p *storev1alpha1.Product) *storev1alpha1.Product {
	p.TypeMeta = metav1.TypeMeta{}
	return p
}
