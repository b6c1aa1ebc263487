// Package printers provides output formatters for CLI operations.
// These printers implement kubectl-compatible output formats including
// table, JSON, YAML, and name-only output.
package printers

import (
	"fmt"
	"io"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"
)

// Supported output formats.
const (
	FormatTable = "table"
	FormatWide  = "wide"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatName  = "name"
)

// Printer knows how to print objects.
type Printer interface {
	// PrintObj prints the given object to the writer
	PrintObj(obj runtime.Object, writer io.Writer) error
}

// PrinterFactory creates printers for different output formats.
type PrinterFactory struct {
	options *PrinterOptions
}

// PrinterOptions contains configuration for printers.
type PrinterOptions struct {
	// NoHeaders indicates whether to omit headers in table output
	NoHeaders bool
	// Wide indicates whether to use wide output format
	Wide bool
}

// NewPrinterFactory creates a new printer factory with the given options.
func NewPrinterFactory(options *PrinterOptions) *PrinterFactory {
	if options == nil {
		options = &PrinterOptions{}
	}
	return &PrinterFactory{options: options}
}

// NewPrinter creates a printer for the specified format. An empty format selects the table printer.
func (f *PrinterFactory) NewPrinter(format string) (Printer, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONPrinter(), nil
	case FormatYAML:
		return NewYAMLPrinter(), nil
	case FormatName:
		return NewNamePrinter(), nil
	case FormatTable, "":
		return NewTablePrinter(f.options), nil
	case FormatWide:
		opts := *f.options
		opts.Wide = true
		return NewTablePrinter(&opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q, must be one of: %s",
			format, strings.Join(f.GetSupportedFormats(), "|"))
	}
}

// GetSupportedFormats returns the list of supported output formats.
func (f *PrinterFactory) GetSupportedFormats() []string {
	return []string{FormatTable, FormatWide, FormatJSON, FormatYAML, FormatName}
}
