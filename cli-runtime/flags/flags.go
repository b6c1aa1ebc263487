// Package flags provides reusable pflag.FlagSet implementations for storectl commands.
// The options package parses the same flag names back into typed options.
package flags

import (
	"github.com/spf13/pflag"
)

// OutputFlags returns flags for output formatting.
func OutputFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("output", pflag.ContinueOnError)

	flags.StringP(FlagOutput, FlagOutputShort, DefaultOutputFormat, "Output format. One of: table|wide|json|yaml|name")
	flags.Bool(FlagNoHeaders, false, "Don't print headers (default print headers)")

	return flags
}

// ListFlags returns flags that narrow product listings.
func ListFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("list", pflag.ContinueOnError)

	flags.Int(FlagLimit, 0, "Maximum number of products to list, 0 lists all")
	flags.String(FlagSort, "", "Order products by id. One of: asc|desc")
	flags.String(FlagCategory, "", "Only list products of this category")

	return flags
}

// CommonFlags returns flags common to write operations.
func CommonFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("common", pflag.ContinueOnError)

	flags.Bool(FlagDryRun, false, "If true, only print the object that would be sent, without sending it")

	return flags
}

// CreateFlags returns flags specific to create operations.
func CreateFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("create", pflag.ContinueOnError)

	flags.StringP(FlagFilename, FlagFilenameShort, "", "Manifest file with the products to create, - reads stdin")
	flags.String(FlagDescription, "", "Description of the new product")
	flags.String(FlagImage, "", "Image URL of the new product")

	return flags
}

// ApplyFlags returns flags specific to apply operations.
func ApplyFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("apply", pflag.ContinueOnError)

	flags.StringP(FlagFilename, FlagFilenameShort, "", "Manifest file with the products to apply, - reads stdin")

	return flags
}

// DeleteFlags returns flags specific to delete operations.
func DeleteFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("delete", pflag.ContinueOnError)

	flags.Bool(FlagIgnoreNotFound, false, "If the requested product does not exist the command will return exit code 0")

	return flags
}
