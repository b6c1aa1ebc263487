package printers

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"k8s.io/apimachinery/pkg/runtime"
)

// tablePrinter prints objects in a table format.
type tablePrinter struct {
	options  *PrinterOptions
	provider ColumnDefinitionProvider
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(options *PrinterOptions) Printer {
	return NewTablePrinterWithColumns(options, nil)
}

// NewTablePrinterWithColumns creates a table printer with a custom column provider.
func NewTablePrinterWithColumns(options *PrinterOptions, provider ColumnDefinitionProvider) Printer {
	if options == nil {
		options = &PrinterOptions{}
	}
	if provider == nil {
		provider = &DefaultColumnProvider{}
	}
	return &tablePrinter{
		options:  options,
		provider: provider,
	}
}

// PrintObj prints an object in table format. Empty lists print nothing.
func (p *tablePrinter) PrintObj(obj runtime.Object, writer io.Writer) error {
	objects := extractItems(obj)
	if len(objects) == 0 {
		return nil
	}

	columns := p.provider.GetColumns(objects[0], p.options.Wide)
	if len(columns) == 0 {
		return fmt.Errorf("no table columns known for %T", objects[0])
	}

	tw := tabwriter.NewWriter(writer, 0, 8, 3, ' ', 0)

	if !p.options.NoHeaders {
		if err := p.printHeader(columns, tw); err != nil {
			return err
		}
	}

	for _, o := range objects {
		if err := p.printObjectRow(o, columns, tw); err != nil {
			return err
		}
	}

	return tw.Flush()
}

// printHeader prints the table header.
func (p *tablePrinter) printHeader(columns []PrintColumn, writer io.Writer) error {
	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, strings.ToUpper(col.Name))
	}
	_, err := fmt.Fprintln(writer, strings.Join(names, "\t"))
	return err
}

// printObjectRow prints a single object as a table row.
func (p *tablePrinter) printObjectRow(obj runtime.Object, columns []PrintColumn, writer io.Writer) error {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return fmt.Errorf("failed to convert %T for printing: %w", obj, err)
	}

	values := make([]string, 0, len(columns))
	for _, col := range columns {
		values = append(values, extractColumnValue(content, col))
	}
	_, err = fmt.Fprintln(writer, strings.Join(values, "\t"))
	return err
}
