package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hbomb79/Cadence/internal"
	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/spf13/cobra"
)

var log = logger.Get("CLI")

func Run() {
	var configPath string
	var command = &cobra.Command{
		Use:           "cadence",
		Short:         "Cadence ingests audio from media URLs in to a music catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	command.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file (environment variables override its values)")

	load := func() (*internal.CadenceConfig, error) { return loadConfig(configPath) }
	command.AddCommand(serveCmd(load))
	command.AddCommand(migrateCmd(load))
	command.AddCommand(enqueueCmd(load))
	command.AddCommand(statusCmd(load))
	command.AddCommand(sweepCmd(load))

	if err := command.Execute(); err != nil {
		log.Emit(logger.FATAL, "Failed to execute command: %v\n", err)
		os.Exit(1)
	}
}

type configLoader func() (*internal.CadenceConfig, error)

func loadConfig(path string) (*internal.CadenceConfig, error) {
	config, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	logger.SetMinLoggingLevel(logger.ParseLevel(config.LogLevel).Level())
	return config, nil
}

// withConnection connects Cadence (without starting any of it's services)
// for the duration of the function provided.
func withConnection(load configLoader, f func(ctx context.Context, cadence cadenceClient) error) error {
	config, err := load()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	cadence := internal.New(*config)
	if err := cadence.Connect(ctx); err != nil {
		return err
	}
	defer cadence.Close()

	return f(ctx, cadence)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
