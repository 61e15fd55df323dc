package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var editScrapFlag string

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task's scrap",
	Long:  `Replace the free-form note body (scrap) of a task.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("scrap") {
			return fmt.Errorf("pass --scrap with the new note body")
		}

		if err := taskService.EditScrap(ctx, user.ID, args[0], editScrapFlag); err != nil {
			return fmt.Errorf("failed to edit task: %w", err)
		}
		fmt.Printf("Updated task %s\n", args[0])
		return nil
	},
}

func init() {
	editCmd.Flags().StringVarP(&editScrapFlag, "scrap", "s", "", "New note body")
}
