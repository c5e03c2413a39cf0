package cmd

import (
	"context"

	"github.com/hbomb79/Cadence/pkg/logger"
	"github.com/spf13/cobra"
)

func migrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply any pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Connecting runs the embedded migrations
			return withConnection(load, func(context.Context, cadenceClient) error {
				log.Emit(logger.SUCCESS, "Database is up to date\n")
				return nil
			})
		},
	}
}
