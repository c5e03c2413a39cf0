package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/spf13/cobra"
)

func enqueueCmd(load configLoader) *cobra.Command {
	var (
		format  string
		quality string
		userID  string
	)

	var command = &cobra.Command{
		Use:   "enqueue <url>",
		Short: "Create a download task for the URL and submit it to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := task.CreateRequest{URL: args[0], OutputFormat: task.Format(format), OutputQuality: quality}
			if userID != "" {
				id, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("user ID %q is not a valid UUID: %w", userID, err)
				}
				req.UserID = &id
			}

			return withConnection(load, func(ctx context.Context, cadence cadenceClient) error {
				created, err := cadence.EnqueueDownload(ctx, req)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), created.ID)
				return nil
			})
		},
	}

	command.Flags().StringVarP(&format, "format", "f", "", "Output format (mp3, flac, ogg, m4a, wav). Defaults based on the URL")
	command.Flags().StringVarP(&quality, "quality", "q", "", "Output bitrate, e.g. 320k")
	command.Flags().StringVar(&userID, "user", "", "ID of the user requesting the download")

	return command
}
