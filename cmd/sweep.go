package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sweepCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Run a single pass of the failed task sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withConnection(load, func(ctx context.Context, cadence cadenceClient) error {
				result, err := cadence.SweepOnce(ctx)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Requeued %d failed task(s), purged %d\n", result.Requeued, result.Purged)
				return nil
			})
		},
	}
}
