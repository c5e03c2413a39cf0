package cmd

import (
	"github.com/hbomb79/Cadence/internal"
	"github.com/spf13/cobra"
)

func serveCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the download workers, sweeper and REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := load()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			return internal.New(*config).Run(ctx)
		},
	}
}
