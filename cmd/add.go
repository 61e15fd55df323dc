package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addScrap string

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [entry]",
	Short: "Add a new task",
	Long: `Add a new task from a quick-add entry.

The entry may carry a liveline:deadline date pair (formats: YYYY-MM-DD,
YYMMDD, DDMmmYY, DDMmm) and a #project token; a bare # keeps the task
outside any project. Without a token the task joins the project of the
currently running task, if any.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		entry := strings.Join(args, " ")
		if addScrap != "" {
			entry += "\n" + addScrap
		}

		task, err := taskService.AddTask(ctx, user.ID, entry)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			data := map[string]interface{}{
				"id":         task.ID,
				"title":      task.Title,
				"scrap":      task.Scrap,
				"project_id": task.ProjectID,
				"added":      task.Added.Format("2006-01-02T15:04:05"),
			}
			if task.Liveline != nil {
				data["liveline"] = task.Liveline.Format("2006-01-02")
			}
			if task.Deadline != nil {
				data["deadline"] = task.Deadline.Format("2006-01-02")
			}
			jsonData, err := json.MarshalIndent(data, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal task: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		}

		fmt.Printf("Task added: %s (ID: %s)\n", task.Title, task.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addScrap, "scrap", "s", "", "Note body for the task")
}
