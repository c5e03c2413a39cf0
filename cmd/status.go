package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/catalog"
	"github.com/hbomb79/Cadence/internal/sweep"
	"github.com/hbomb79/Cadence/internal/task"
	"github.com/spf13/cobra"
)

// cadenceClient is the subset of Cadence used by the one-shot commands.
type cadenceClient interface {
	EnqueueDownload(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context, filter task.ListFilter) ([]*task.Task, error)
	GetTrack(ctx context.Context, id uuid.UUID) (*catalog.Track, error)
	SweepOnce(ctx context.Context) (sweep.Result, error)
}

var statusColors = map[task.Status]*color.Color{
	task.Pending:     color.New(color.FgWhite),
	task.Downloading: color.New(color.FgCyan),
	task.Processing:  color.New(color.FgBlue),
	task.Completed:   color.New(color.FgHiGreen),
	task.Failed:      color.New(color.FgHiRed, color.Bold),
}

func statusCmd(load configLoader) *cobra.Command {
	var (
		filter string
		limit  uint64
	)

	var command = &cobra.Command{
		Use:   "status [task-id]",
		Short: "Show the status of a download task, or list recent tasks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id uuid.UUID
			if len(args) == 1 {
				parsed, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("task ID %q is not a valid UUID: %w", args[0], err)
				}
				id = parsed
			}

			return withConnection(load, func(ctx context.Context, cadence cadenceClient) error {
				out := cmd.OutOrStdout()
				if id != uuid.Nil {
					t, err := cadence.GetTask(ctx, id)
					if err != nil {
						return err
					}

					printTaskDetail(out, t)
					return nil
				}

				listFilter := task.ListFilter{Limit: limit}
				if filter != "" {
					status := task.Status(filter)
					listFilter.Status = &status
				}

				tasks, err := cadence.ListTasks(ctx, listFilter)
				if err != nil {
					return err
				}

				for _, t := range tasks {
					printTaskSummary(out, t)
				}
				return nil
			})
		},
	}

	command.Flags().StringVarP(&filter, "status", "s", "", "Only list tasks in this status")
	command.Flags().Uint64VarP(&limit, "limit", "n", 20, "Maximum number of tasks to list")

	return command
}

func printTaskSummary(out io.Writer, t *task.Task) {
	fmt.Fprintf(out, "%s  %s  %3d%%  %s\n", t.ID, colorStatus(t.Status), t.Percent, t.URL)
}

func printTaskDetail(out io.Writer, t *task.Task) {
	fmt.Fprintf(out, "ID:          %s\n", t.ID)
	fmt.Fprintf(out, "URL:         %s\n", t.URL)
	fmt.Fprintf(out, "Output:      %s @ %s\n", t.OutputFormat, t.OutputQuality)
	fmt.Fprintf(out, "Status:      %s (%d%%)\n", colorStatus(t.Status), t.Percent)
	fmt.Fprintf(out, "Step:        %s\n", t.CurrentStep)
	fmt.Fprintf(out, "Retries:     %d\n", t.RetryCount)
	if t.TrackID != nil {
		fmt.Fprintf(out, "Track:       %s\n", t.TrackID)
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(out, "Completed:   %s\n", t.CompletedAt.Format("2006-01-02 15:04:05"))
	}
	if entries := t.ErrorEntries(); len(entries) > 0 {
		fmt.Fprintf(out, "Errors:\n  %s\n", strings.Join(entries, "\n  "))
	}
}

func colorStatus(status task.Status) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status)
	}

	return string(status)
}
