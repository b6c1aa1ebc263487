package printers

import (
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/runtime"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// namePrinter prints objects as resource/name, one per line.
type namePrinter struct{}

// NewNamePrinter creates a new name printer.
func NewNamePrinter() Printer {
	return &namePrinter{}
}

// PrintObj prints an object as name-only output.
func (p *namePrinter) PrintObj(obj runtime.Object, writer io.Writer) error {
	for _, item := range extractItems(obj) {
		var name string
		switch o := item.(type) {
		case *storev1alpha1.Product:
			name = fmt.Sprintf("product/%d", o.ID)
		case *storev1alpha1.Category:
			name = fmt.Sprintf("category/%s", o.Name)
		default:
			return fmt.Errorf("cannot print name of %T", item)
		}
		if _, err := fmt.Fprintln(writer, name); err != nil {
			return err
		}
	}
	return nil
}
