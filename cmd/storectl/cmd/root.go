// Package cmd implements the storectl command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dtomasi/storectl/internal/config"
)

func init() {
	// Methods may be given as GET, Post, delete, ...
	cobra.EnableCaseInsensitive = true
}

// Option configures the root command.
type Option func(*app)

// WithRuntimeFactory replaces the factory creating the catalog runtime.
func WithRuntimeFactory(f RuntimeFactory) Option {
	return func(a *app) {
		if f != nil {
			a.newRuntime = f
		}
	}
}

// NewRootCommand creates the root storectl command
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		viper:      config.New(),
		newRuntime: DefaultRuntimeFactory,
	}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "storectl [method] [resource] [args]",
		Short: "Manage the products of the Fake Store API",
		Long: `storectl lists, creates, views and deletes products of the Fake Store API
(https://fakestoreapi.com/products) from the command line or a web interface.

Without arguments storectl starts the web server on http://localhost:3000.
Methods are case-insensitive, so "GET products" and "get products" are the same.`,
		Example: `  # Start the web server
  storectl

  # List all products, then a single one
  storectl GET products
  storectl GET products/1

  # Create a product
  storectl POST products "Lamp" 19.99 electronics

  # Delete a product
  storectl DELETE products/21`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cmd.PrintErrln(cmd.UsageString())
				return fmt.Errorf("unsupported method: %s", args[0])
			}
			return runServe(cmd, a)
		},
	}

	rootCmd.PersistentFlags().AddFlagSet(globalFlags(&a.configFile))
	// BindFlags only fails for a nil flag, which cannot happen here.
	_ = config.BindFlags(a.viper, rootCmd.PersistentFlags())

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == cmd.Root() {
			fmt.Fprintln(cmd.OutOrStdout(), banner())
		}
		defaultHelp(cmd, args)
	})

	rootCmd.AddCommand(
		NewGetCommand(a),
		NewCreateCommand(a),
		NewApplyCommand(a),
		NewDeleteCommand(a),
		NewServeCommand(a),
	)

	return rootCmd
}

// globalFlags returns the persistent flags shared by every command. Their
// defaults live in the config package, so the flag defaults here are only
// shown in help output.
func globalFlags(configFile *string) *pflag.FlagSet {
	fs := pflag.NewFlagSet("global", pflag.ContinueOnError)
	defaults := config.New()

	fs.StringVar(configFile, "config", "", "Path to a config file (default $HOME/.config/storectl/config.yaml)")
	fs.String(config.KeyAPIURL, defaults.GetString(config.KeyAPIURL), "Base URL of the catalog API")
	fs.String(config.KeyBackend, defaults.GetString(config.KeyBackend), "Catalog backend. One of: remote|memory|pebble")
	fs.String(config.KeyDBPath, defaults.GetString(config.KeyDBPath), "Database directory of the pebble backend")
	fs.Duration(config.KeyTimeout, defaults.GetDuration(config.KeyTimeout), "Timeout of a single catalog API call")
	fs.String(config.KeyLogLevel, defaults.GetString(config.KeyLogLevel), "Log level. One of: debug|info|warn|error")
	fs.String(config.KeyLogFormat, defaults.GetString(config.KeyLogFormat), "Log format. One of: console|json")
	fs.String(config.KeyAddr, defaults.GetString(config.KeyAddr), "Listen address of the web server")
	fs.Duration(config.KeyShutdownTimeout, defaults.GetDuration(config.KeyShutdownTimeout), "Grace period for in-flight requests on shutdown")

	return fs
}
