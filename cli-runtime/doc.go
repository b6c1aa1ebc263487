// Package cliruntime provides the building blocks of the storectl command line.
//
// It includes:
//   - Operation handlers for products and categories (get, create, apply, delete)
//   - Output printers (table, wide, JSON, YAML, name)
//   - Reusable pflag sets and the parsers that turn them into options
//
// Cobra commands live in cmd/storectl and only glue these pieces together.
package cliruntime
