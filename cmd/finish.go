package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// finishCmd represents the finish command
var finishCmd = &cobra.Command{
	Use:   "finish [task-id]",
	Short: "Finish a task",
	Long: `Mark a task as finished, stopping its timer first if it is
running. Finishing the last open task of a project finishes the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		task, projectFinished, err := taskService.FinishTask(ctx, user.ID, args[0])
		if err != nil {
			return fmt.Errorf("failed to finish task: %w", err)
		}

		fmt.Printf("Finished: %s (total %s)\n", task.Title, formatDuration(task.Duration))
		if projectFinished {
			fmt.Println("That was the last open task; the project is finished too.")
		}
		return nil
	},
}
