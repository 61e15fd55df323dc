package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start the timer on a task",
	Long: `Start accumulating time on a task. Any task you already had
running is stopped first, so at most one task is ever active.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		task, err := taskService.StartTask(ctx, user.ID, args[0])
		if err != nil {
			return fmt.Errorf("failed to start task: %w", err)
		}

		fmt.Printf("Started: %s (%s so far)\n", task.Title, formatDuration(task.Duration))
		return nil
	},
}
