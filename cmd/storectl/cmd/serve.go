package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dtomasi/storectl/web"
)

// NewServeCommand creates the serve command
func NewServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the web server. Running storectl without arguments does the same.

The server stops gracefully on SIGINT or SIGTERM.`,
		Example: `  storectl serve --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}
}

func runServe(cmd *cobra.Command, a *app) error {
	factory, err := a.start(cmd)
	if err != nil {
		return err
	}
	defer a.stop(cmd.Context())

	srv, err := web.NewServer(factory,
		web.WithAddr(a.config.Addr),
		web.WithShutdownTimeout(a.config.ShutdownTimeout),
		web.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	a.logger.Info("Starting web server", zap.String("addr", srv.Addr()), zap.String("backend", a.config.Backend))
	return srv.Run(cmd.Context())
}
