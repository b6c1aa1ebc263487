// Package options provides utilities for parsing command-line flags into
// structured options that can be used with handlers and printers.
package options

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dtomasi/storectl/cli-runtime/flags"
	"github.com/dtomasi/storectl/cli-runtime/printers"
	"github.com/dtomasi/storectl/core/catalog"
)

// OutputOptions contains parsed output formatting options.
type OutputOptions struct {
	Format    string
	NoHeaders bool
	Wide      bool
}

// CommonOptions contains parsed common options.
type CommonOptions struct {
	DryRun bool
}

// CreateOptions contains parsed create options.
type CreateOptions struct {
	Filename    string
	Description string
	Image       string
}

// DeleteOptions contains parsed delete options.
type DeleteOptions struct {
	IgnoreNotFound bool
}

// ParseOutputOptions parses output flags into OutputOptions.
func ParseOutputOptions(fs *pflag.FlagSet) (*OutputOptions, error) {
	if fs == nil {
		return &OutputOptions{Format: flags.DefaultOutputFormat}, nil
	}

	options := &OutputOptions{Format: flags.DefaultOutputFormat}

	if format, err := fs.GetString(flags.FlagOutput); err == nil && format != "" {
		options.Format = strings.ToLower(format)
	}

	if noHeaders, err := fs.GetBool(flags.FlagNoHeaders); err == nil {
		options.NoHeaders = noHeaders
	}

	// Handle wide format
	if options.Format == printers.FormatWide {
		options.Wide = true
		options.Format = printers.FormatTable
	}

	return options, nil
}

// ParseListOptions parses list flags into catalog.ListOptions.
func ParseListOptions(fs *pflag.FlagSet) (catalog.ListOptions, error) {
	var opts catalog.ListOptions
	if fs == nil {
		return opts, nil
	}

	if limit, err := fs.GetInt(flags.FlagLimit); err == nil {
		opts.Limit = limit
	}

	if sort, err := fs.GetString(flags.FlagSort); err == nil {
		opts.Sort = strings.ToLower(sort)
	}

	if category, err := fs.GetString(flags.FlagCategory); err == nil {
		opts.Category = category
	}

	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("invalid list flags: %w", err)
	}

	return opts, nil
}

// ParseCommonOptions parses common flags into CommonOptions.
func ParseCommonOptions(fs *pflag.FlagSet) (*CommonOptions, error) {
	if fs == nil {
		return &CommonOptions{}, nil
	}

	options := &CommonOptions{}

	if dryRun, err := fs.GetBool(flags.FlagDryRun); err == nil {
		options.DryRun = dryRun
	}

	return options, nil
}

// ParseCreateOptions parses create flags into CreateOptions.
func ParseCreateOptions(fs *pflag.FlagSet) (*CreateOptions, error) {
	if fs == nil {
		return &CreateOptions{}, nil
	}

	options := &CreateOptions{}

	if filename, err := fs.GetString(flags.FlagFilename); err == nil {
		options.Filename = filename
	}

	if description, err := fs.GetString(flags.FlagDescription); err == nil {
		options.Description = description
	}

	if image, err := fs.GetString(flags.FlagImage); err == nil {
		options.Image = image
	}

	return options, nil
}

// ParseDeleteOptions parses delete flags into DeleteOptions.
func ParseDeleteOptions(fs *pflag.FlagSet) (*DeleteOptions, error) {
	if fs == nil {
		return &DeleteOptions{}, nil
	}

	options := &DeleteOptions{}

	if ignore, err := fs.GetBool(flags.FlagIgnoreNotFound); err == nil {
		options.IgnoreNotFound = ignore
	}

	return options, nil
}

// ToPrinterOptions converts OutputOptions to printers.PrinterOptions.
func (o *OutputOptions) ToPrinterOptions() *printers.PrinterOptions {
	return &printers.PrinterOptions{
		NoHeaders: o.NoHeaders,
		Wide:      o.Wide,
	}
}

// NewPrinter returns the printer selected by the options.
func (o *OutputOptions) NewPrinter() (printers.Printer, error) {
	return printers.NewPrinterFactory(o.ToPrinterOptions()).NewPrinter(o.Format)
}
