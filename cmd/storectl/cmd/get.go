package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtomasi/storectl/cli-runtime/flags"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/cli-runtime/options"
	"github.com/dtomasi/storectl/cli-runtime/printers"
)

// NewGetCommand creates the get command
func NewGetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [TYPE[/ID]] [ID]",
		Short: "Display one or many products",
		Long: `Display one or many products, or the product categories.

Supported resource types:
  products, product, p        - Products (default)
  categories, category, c     - Product categories

Output formats:
  -o table    - Human-readable table (default)
  -o wide     - Table with rating and image columns
  -o json     - JSON format
  -o yaml     - YAML format
  -o name     - Resource names only`,
		Example: `  # List all products
  storectl get products

  # Get a single product in YAML format
  storectl get products/1 -o yaml
  storectl get products 1 -o yaml

  # The five most recent jewelery products
  storectl get products --category jewelery --sort desc --limit 5

  # List categories
  storectl get categories`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, a, args)
		},
	}

	cmd.Flags().AddFlagSet(flags.OutputFlags())
	cmd.Flags().AddFlagSet(flags.ListFlags())

	return cmd
}

func runGet(cmd *cobra.Command, a *app, args []string) error {
	if len(args) == 0 {
		args = []string{string(resourceProducts)}
	}
	ref, err := parseResource(args, true)
	if err != nil {
		return err
	}
	if len(ref.rest) > 0 {
		return fmt.Errorf("unexpected arguments: %v", ref.rest)
	}

	listOpts, err := options.ParseListOptions(cmd.Flags())
	if err != nil {
		return err
	}

	factory, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer a.stop(cmd.Context())

	ctx := cmd.Context()

	if ref.kind == resourceCategories {
		resp, err := factory.Categories().Handle(ctx)
		if err != nil {
			return err
		}
		return printResult(cmd, "Categories:", resp.Categories)
	}

	req := &handlers.GetRequest{ListOptions: listOpts}
	if ref.hasID() {
		id := ref.id
		req.ID = &id
	}

	resp, err := factory.Get().Handle(ctx, req)
	if err != nil {
		return err
	}

	if !resp.IsCollection {
		return printResult(cmd, "Product found:", resp.Product)
	}

	if len(resp.List.Items) == 0 {
		outputOpts, err := options.ParseOutputOptions(cmd.Flags())
		if err != nil {
			return err
		}
		if outputOpts.Format == printers.FormatTable {
			cmd.PrintErrln("No products found.")
			return nil
		}
	}
	return printResult(cmd, "All products:", resp.List)
}
