package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

// resourceKind is a resource type accepted on the command line.
type resourceKind string

const (
	resourceProducts   resourceKind = "products"
	resourceCategories resourceKind = "categories"
)

// resourceRef is a parsed `products`, `products/<id>`, `products <id>` or
// `categories` argument list.
type resourceRef struct {
	kind resourceKind
	id   int
	// rest holds the arguments following the resource (and id, when given)
	rest []string
}

func (r resourceRef) hasID() bool {
	return r.id > 0
}

// parseResource parses the resource arguments of a command. When idArg is set
// a second argument is read as the product id.
func parseResource(args []string, idArg bool) (resourceRef, error) {
	if len(args) == 0 {
		return resourceRef{}, fmt.Errorf("missing resource: must be one of products, categories")
	}

	name, rawID, hasSlash := strings.Cut(args[0], "/")
	rest := args[1:]

	var ref resourceRef
	switch strings.ToLower(name) {
	case "products", "product", "p":
		ref.kind = resourceProducts
	case "categories", "category", "cat", "c":
		ref.kind = resourceCategories
	default:
		return resourceRef{}, fmt.Errorf("invalid resource: %s", args[0])
	}

	if !hasSlash && idArg && len(rest) > 0 {
		rawID, rest = rest[0], rest[1:]
		hasSlash = true
	}
	if hasSlash {
		if ref.kind != resourceProducts {
			return resourceRef{}, fmt.Errorf("invalid resource: %s", args[0])
		}
		id, err := parseProductID(rawID)
		if err != nil {
			return resourceRef{}, err
		}
		ref.id = id
	}

	ref.rest = rest
	return ref, nil
}

func parseProductID(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing product id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product id: %q", raw)
	}
	return id, nil
}
