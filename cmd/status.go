package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running task",
	Long:  `Show the currently running task and its elapsed time so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		active, err := taskService.ActiveTask(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to find active task: %w", err)
		}

		if jsonOutput {
			data := map[string]interface{}{"active": active != nil}
			if active != nil {
				data["id"] = active.ID
				data["title"] = active.Title
				data["elapsed"] = int64(active.EffectiveDuration(time.Now()) / time.Second)
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal status: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		if active == nil {
			fmt.Println("No task is running.")
			return nil
		}
		fmt.Printf("Running: %s (%s elapsed)\n",
			active.Title, formatDuration(active.EffectiveDuration(time.Now())))
		return nil
	},
}
