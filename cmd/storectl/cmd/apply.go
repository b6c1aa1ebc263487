package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtomasi/storectl/cli-runtime/flags"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/cli-runtime/options"
)

// NewApplyCommand creates the apply command
func NewApplyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply -f FILENAME",
		Short: "Apply products from a manifest",
		Long: `Apply products from a YAML or JSON manifest.

Products without an id, or with an id the catalog does not know, are created.
Products with a known id are updated when they differ from the stored product.`,
		Example: `  # Apply a manifest
  storectl apply -f products.yaml

  # Apply from stdin
  cat products.json | storectl apply -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApply(cmd, a)
		},
	}

	cmd.Flags().AddFlagSet(flags.CommonFlags())
	cmd.Flags().AddFlagSet(flags.ApplyFlags())

	return cmd
}

func runApply(cmd *cobra.Command, a *app) error {
	filename, err := cmd.Flags().GetString(flags.FlagFilename)
	if err != nil {
		return err
	}
	if filename == "" {
		return fmt.Errorf("must specify --%s", flags.FlagFilename)
	}
	commonOpts, err := options.ParseCommonOptions(cmd.Flags())
	if err != nil {
		return err
	}

	products, err := readManifest(cmd, filename)
	if err != nil {
		return err
	}

	factory, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer a.stop(cmd.Context())

	resp, err := factory.Apply().Handle(cmd.Context(), &handlers.ApplyRequest{
		Products: products,
		DryRun:   commonOpts.DryRun,
	})

	suffix := ""
	if commonOpts.DryRun {
		suffix = " (dry run)"
	}
	if resp != nil {
		for _, result := range resp.Results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s%s\n", appliedName(result), result.Applied, suffix)
		}
	}
	return err
}

// appliedName names an apply result like the name printer does. Products that
// were not created yet have no id and are named by title.
func appliedName(result handlers.ApplyResult) string {
	if result.Product.ID == 0 {
		return fmt.Sprintf("product %q", result.Product.Title)
	}
	return fmt.Sprintf("product/%d", result.Product.ID)
}
