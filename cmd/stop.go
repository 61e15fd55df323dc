package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop [task-id]",
	Short: "Stop the running task",
	Long: `Stop the timer on a task. Without an argument the currently
running task is stopped. Stopping an idle task does nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		taskID := ""
		if len(args) > 0 {
			taskID = args[0]
		} else {
			active, err := taskService.ActiveTask(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to find active task: %w", err)
			}
			if active == nil {
				fmt.Println("No task is running.")
				return nil
			}
			taskID = active.ID
		}

		task, stopped, err := taskService.StopTask(ctx, user.ID, taskID)
		if err != nil {
			return fmt.Errorf("failed to stop task: %w", err)
		}
		if !stopped {
			fmt.Printf("Task was not running: %s\n", task.Title)
			return nil
		}

		fmt.Printf("Stopped: %s (total %s)\n", task.Title, formatDuration(task.Duration))
		return nil
	},
}
