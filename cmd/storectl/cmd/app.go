package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/dtomasi/storectl/cli-runtime/handlers"
	"github.com/dtomasi/storectl/cli-runtime/options"
	"github.com/dtomasi/storectl/cli-runtime/printers"
	"github.com/dtomasi/storectl/core/events"
	storeruntime "github.com/dtomasi/storectl/core/runtime"
	"github.com/dtomasi/storectl/internal/config"
	"github.com/dtomasi/storectl/internal/logging"
)

// RuntimeFactory creates the runtime for the loaded configuration.
type RuntimeFactory func(cfg config.Config, logger *zap.Logger) (storeruntime.Runtime, error)

// DefaultRuntimeFactory selects the backend named by cfg.Backend.
func DefaultRuntimeFactory(cfg config.Config, logger *zap.Logger) (storeruntime.Runtime, error) {
	return storeruntime.NewRuntimeFromConfig(storeruntime.SimpleRuntimeConfig{
		Type:    storeruntime.RuntimeType(cfg.Backend),
		APIURL:  cfg.APIURL,
		DBPath:  cfg.DBPath,
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
}

// app holds the state shared by the commands of one invocation. The runtime is
// created lazily so that help and usage never touch a backend.
type app struct {
	viper          *viper.Viper
	configFile     string
	newRuntime     RuntimeFactory
	config         config.Config
	logger         *zap.Logger
	runtime        storeruntime.Runtime
	handlerFactory *handlers.HandlerFactory
}

// start loads the configuration, builds the logger and starts the runtime.
func (a *app) start(cmd *cobra.Command) (*handlers.HandlerFactory, error) {
	if a.handlerFactory != nil {
		return a.handlerFactory, nil
	}

	if err := config.ReadConfigFile(a.viper, a.configFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(a.viper)
	if err != nil {
		return nil, err
	}
	a.config = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	a.logger = logger

	rt, err := a.newRuntime(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create runtime: %w", err)
	}
	if err := rt.Start(cmd.Context()); err != nil {
		return nil, fmt.Errorf("failed to start runtime: %w", err)
	}
	a.runtime = rt
	logger.Debug("runtime started", zap.String("backend", cfg.Backend))

	factory, err := handlers.NewHandlerFactory(rt.Catalog(),
		handlers.WithLogger(logger),
		handlers.WithRecorder(rt.EventRecorder(events.DefaultComponent)),
	)
	if err != nil {
		a.stop(cmd.Context())
		return nil, err
	}
	a.handlerFactory = factory
	return factory, nil
}

// stop releases the runtime, if one was started.
func (a *app) stop(ctx context.Context) {
	if a.runtime == nil {
		return
	}
	if err := a.runtime.Stop(context.WithoutCancel(ctx)); err != nil {
		a.logger.Warn("failed to stop runtime", zap.Error(err))
	}
	a.runtime = nil
	a.handlerFactory = nil
	_ = a.logger.Sync()
}

// printResult prints obj with the printer selected by the output flags. Table
// output is preceded by heading; machine-readable formats are printed bare.
func printResult(cmd *cobra.Command, heading string, obj runtime.Object) error {
	outputOpts, err := options.ParseOutputOptions(cmd.Flags())
	if err != nil {
		return err
	}
	printer, err := outputOpts.NewPrinter()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputOpts.Format == printers.FormatTable && heading != "" {
		if _, err := fmt.Fprintln(out, heading); err != nil {
			return err
		}
	}
	return printer.PrintObj(obj, out)
}

func readerFor(cmd *cobra.Command, filename string) (io.ReadCloser, error) {
	if filename == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	return f, nil
}
