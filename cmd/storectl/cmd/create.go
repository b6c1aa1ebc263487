package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
	"github.com/dtomasi/storectl/cli-runtime/flags"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/cli-runtime/options"
	"github.com/dtomasi/storectl/core/codec"
	"github.com/dtomasi/storectl/core/validation"
)

// NewCreateCommand creates the create command, also available as post
func NewCreateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "create products TITLE PRICE CATEGORY | -f FILENAME",
		Aliases: []string{"post"},
		Short:   "Create a product from arguments or a manifest",
		Long: `Create a product from positional arguments or from a YAML or JSON manifest.

The price must be a positive number. Missing descriptions default to
"Description of product <title>" and missing images to a placeholder image.`,
		Example: `  # Create a product
  storectl create products "Lamp" 19.99 electronics --description "A desk lamp"

  # The same, HTTP style
  storectl POST products "Lamp" 19.99 electronics

  # Create every product of a manifest
  storectl create -f products.yaml

  # Validate without sending
  storectl create products "Lamp" 19.99 electronics --dry-run -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, a, args)
		},
	}

	cmd.Flags().AddFlagSet(flags.OutputFlags())
	cmd.Flags().AddFlagSet(flags.CommonFlags())
	cmd.Flags().AddFlagSet(flags.CreateFlags())
	cmd.SetFlagErrorFunc(priceFlagError)

	return cmd
}

// priceFlagError reports a negative price such as -3, which pflag reads as a
// shorthand flag, as a price error.
func priceFlagError(_ *cobra.Command, err error) error {
	const marker = " in -"
	msg := err.Error()
	i := strings.LastIndex(msg, marker)
	if !strings.HasPrefix(msg, "unknown shorthand flag") || i < 0 {
		return err
	}
	raw := msg[i+len(marker):]
	if _, perr := strconv.ParseFloat(raw, 64); perr != nil {
		return err
	}
	if _, perr := validation.ParsePrice("-" + raw); perr != nil {
		return perr
	}
	return err
}

func runCreate(cmd *cobra.Command, a *app, args []string) error {
	createOpts, err := options.ParseCreateOptions(cmd.Flags())
	if err != nil {
		return err
	}
	commonOpts, err := options.ParseCommonOptions(cmd.Flags())
	if err != nil {
		return err
	}

	var products []*storev1alpha1.Product
	if createOpts.Filename != "" {
		if len(args) > 1 {
			return fmt.Errorf("positional product arguments cannot be combined with --%s", flags.FlagFilename)
		}
		products, err = readManifest(cmd, createOpts.Filename)
	} else {
		var product *storev1alpha1.Product
		product, err = productFromArgs(args, createOpts)
		products = []*storev1alpha1.Product{product}
	}
	if err != nil {
		return err
	}

	factory, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer a.stop(cmd.Context())

	created := &storev1alpha1.ProductList{}
	for _, product := range products {
		resp, err := factory.Create().Handle(cmd.Context(), &handlers.CreateRequest{
			Product: product,
			DryRun:  commonOpts.DryRun,
		})
		if err != nil {
			return err
		}
		created.Items = append(created.Items, *resp.Product)
	}

	heading := "Product created:"
	if len(created.Items) > 1 {
		heading = "Products created:"
	}
	if commonOpts.DryRun {
		heading = "Product validated (dry run):"
	}

	if len(created.Items) == 1 {
		return printResult(cmd, heading, &created.Items[0])
	}
	return printResult(cmd, heading, created)
}

// productFromArgs builds a product from `products TITLE PRICE CATEGORY`.
func productFromArgs(args []string, createOpts *options.CreateOptions) (*storev1alpha1.Product, error) {
	ref, err := parseResource(args, false)
	if err != nil {
		return nil, err
	}
	if ref.kind != resourceProducts || ref.hasID() {
		return nil, fmt.Errorf("invalid resource: %s", args[0])
	}
	if len(ref.rest) != 3 {
		return nil, fmt.Errorf("missing parameters: expected products TITLE PRICE CATEGORY")
	}

	title, rawPrice, category := ref.rest[0], ref.rest[1], ref.rest[2]
	if title == "" || rawPrice == "" || category == "" {
		return nil, fmt.Errorf("missing parameters: expected products TITLE PRICE CATEGORY")
	}
	price, err := validation.ParsePrice(rawPrice)
	if err != nil {
		return nil, err
	}

	return &storev1alpha1.Product{
		Title:       title,
		Price:       price,
		Category:    category,
		Description: createOpts.Description,
		Image:       createOpts.Image,
	}, nil
}

func readManifest(cmd *cobra.Command, filename string) ([]*storev1alpha1.Product, error) {
	r, err := readerFor(cmd, filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	decoder, err := codec.NewDefaultDecoder()
	if err != nil {
		return nil, err
	}
	products, err := decoder.DecodeProducts(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return products, nil
}
