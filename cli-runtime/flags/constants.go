package flags

// Flag name constants shared by storectl commands.
// These constants ensure consistency and prevent typos in flag usage.

// Output formatting flags
const (
	// FlagOutput specifies the output format (table, wide, json, yaml, name)
	FlagOutput = "output"
	// FlagOutputShort is the short form of output flag
	FlagOutputShort = "o"
	// FlagNoHeaders disables header printing in table output
	FlagNoHeaders = "no-headers"
)

// List flags
const (
	// FlagLimit caps the number of listed products
	FlagLimit = "limit"
	// FlagSort orders listed products by id
	FlagSort = "sort"
	// FlagCategory restricts listed products to one category
	FlagCategory = "category"
)

// Common operation flags
const (
	// FlagDryRun only prints what would be sent without sending
	FlagDryRun = "dry-run"
)

// Create operation flags
const (
	// FlagFilename specifies a manifest file, "-" reads stdin
	FlagFilename = "filename"
	// FlagFilenameShort is the short form of filename flag
	FlagFilenameShort = "f"
	// FlagDescription sets the description of a new product
	FlagDescription = "description"
	// FlagImage sets the image URL of a new product
	FlagImage = "image"
)

// Delete operation flags
const (
	// FlagIgnoreNotFound treats missing products as success
	FlagIgnoreNotFound = "ignore-not-found"
)

// Default values for flags
const (
	// DefaultOutputFormat is the default output format
	DefaultOutputFormat = "table"
)
