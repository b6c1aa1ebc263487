package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtomasi/storectl/cli-runtime/flags"
	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/cli-runtime/options"
)

// NewDeleteCommand creates the delete command
func NewDeleteCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete products/ID",
		Short: "Delete a product",
		Example: `  # Delete product 21
  storectl delete products/21
  storectl DELETE products 21

  # Succeed even if the product does not exist
  storectl delete products/99 --ignore-not-found`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, a, args)
		},
	}

	cmd.Flags().AddFlagSet(flags.OutputFlags())
	cmd.Flags().AddFlagSet(flags.DeleteFlags())

	return cmd
}

func runDelete(cmd *cobra.Command, a *app, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing product id")
	}
	ref, err := parseResource(args, true)
	if err != nil {
		return err
	}
	if ref.kind != resourceProducts {
		return fmt.Errorf("invalid resource: %s", args[0])
	}
	if !ref.hasID() {
		return fmt.Errorf("missing product id")
	}

	deleteOpts, err := options.ParseDeleteOptions(cmd.Flags())
	if err != nil {
		return err
	}

	factory, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer a.stop(cmd.Context())

	resp, err := factory.Delete().Handle(cmd.Context(), &handlers.DeleteRequest{
		ID:             ref.id,
		IgnoreNotFound: deleteOpts.IgnoreNotFound,
	})
	if err != nil {
		return err
	}
	if resp.Deleted == nil {
		cmd.PrintErrf("product %d not found, ignored\n", ref.id)
		return nil
	}

	return printResult(cmd, "Product deleted:", resp.Deleted)
}
