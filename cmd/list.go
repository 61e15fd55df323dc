package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskrhq/taskr/internal/domain"
	"github.com/taskrhq/taskr/internal/quickadd"
)

var (
	listFinished bool
	listArchived bool
	listFrom     string
	listTo       string
	listSearch   string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List upcoming tasks. Use --finished for finished tasks awaiting
archival, or --archived (optionally windowed with --from/--to) for the
archive. --search fuzzy-matches against task titles.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		user, err := currentUser(ctx)
		if err != nil {
			return err
		}

		tasks, err := fetchTasks(ctx, user.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printTasksJSON(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}

		now := time.Now()
		for _, task := range tasks {
			status, err := task.Status(now)
			if err != nil {
				return err
			}
			marker := " "
			if task.IsActive() {
				marker = ">"
			}
			fmt.Printf("%s %-36s  %-9s  %8s  %s\n",
				marker, task.ID, status, formatDuration(task.EffectiveDuration(now)), task.Title)
		}
		return nil
	},
}

func fetchTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	if listSearch != "" {
		return taskService.SearchTasks(ctx, userID, listSearch)
	}
	if listArchived {
		from, to, err := archiveWindow()
		if err != nil {
			return nil, err
		}
		return taskService.ListArchived(ctx, userID, from, to)
	}
	if listFinished {
		return taskService.ListFinished(ctx, userID)
	}
	return taskService.ListUpcoming(ctx, userID)
}

// archiveWindow parses the --from/--to date flags.
func archiveWindow() (from, to *time.Time, err error) {
	now := time.Now()
	if listFrom != "" {
		at, err := quickadd.ParseDate(listFrom, now)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --from date: %w", err)
		}
		from = &at
	}
	if listTo != "" {
		at, err := quickadd.ParseDate(listTo, now)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --to date: %w", err)
		}
		// window is inclusive of the named day
		end := at.Add(24 * time.Hour)
		to = &end
	}
	return from, to, nil
}

func printTasksJSON(tasks []*domain.Task) error {
	now := time.Now()
	out := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		status, err := task.Status(now)
		if err != nil {
			return err
		}
		out = append(out, map[string]interface{}{
			"id":       task.ID,
			"title":    task.Title,
			"status":   string(status),
			"active":   task.IsActive(),
			"duration": int64(task.EffectiveDuration(now) / time.Second),
			"project":  task.ProjectID,
		})
	}
	jsonData, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}
	fmt.Println(string(jsonData))
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listFinished, "finished", false, "List finished, unarchived tasks")
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "List archived tasks")
	listCmd.Flags().StringVar(&listFrom, "from", "", "Oldest archive day to include (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listTo, "to", "", "Newest archive day to include (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Fuzzy-match tasks by title")
}
