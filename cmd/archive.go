package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var archiveAllFinished bool

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Archive finished tasks",
	Long: `Archive a finished task, or with --finished archive every
finished task in one go. Only finished tasks can be archived.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		if archiveAllFinished {
			n, err := taskService.ArchiveFinishedTasks(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to archive finished tasks: %w", err)
			}
			fmt.Printf("Archived %d task(s)\n", n)
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("pass a task id or --finished")
		}
		if err := taskService.ArchiveTask(ctx, user.ID, args[0]); err != nil {
			return fmt.Errorf("failed to archive task: %w", err)
		}
		fmt.Printf("Archived task %s\n", args[0])
		return nil
	},
}

func init() {
	archiveCmd.Flags().BoolVar(&archiveAllFinished, "finished", false, "Archive all finished tasks")
}
